package mapview

import "fmt"

// EngineUnavailableError means a map was constructed before the engine
// global was installed. Hosts that await assets.Bootstrapper never see it.
type EngineUnavailableError struct {
	Global string
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("map engine unavailable: global %q not installed", e.Global)
}
