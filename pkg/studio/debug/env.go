package debug

import "os"

const (
	DebugShowSetupKey = "SONGSLIDE_DEBUG_SHOW_SETUP"
	DebugHttpKey      = "SONGSLIDE_DEBUG_HTTP"
)

func isDebugShowSetupSet() bool {
	return os.Getenv(DebugShowSetupKey) == "true"
}

func isDebugHttpSet() bool {
	return os.Getenv(DebugHttpKey) == "true"
}
