package assets

import "fmt"

// AssetLoadError reports a required script that failed to load or install.
type AssetLoadError struct {
	ID  string
	URL string
	Err error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load asset %s (%s): %v", e.ID, e.URL, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }
