package cmd

// DefaultGenerationConfigFilename describes the default config filename looked up in a project folder when the
// --config flag is not provided.
const DefaultGenerationConfigFilename = "wake.json"

// DefaultBuildFilename describes the default compiled-build filename looked up in a project folder when the
// --build flag is not provided.
const DefaultBuildFilename = "build.json"
