package debug

func IsDebugShowSetup() bool {
	return isDebugShowSetupSet()
}

// IsDebugHttp keeps gin in debug mode with route dumps.
func IsDebugHttp() bool {
	return isDebugHttpSet()
}
