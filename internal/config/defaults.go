package config

const (
	defaultOutputDir      = "~/.local/share/synthgrid/output"
	defaultLogDir         = "~/.local/share/synthgrid/logs"
	defaultEngineBinary   = "idl"
	defaultEnginePrompt   = "IDL> "
	defaultLibraryPath    = "/home/thomasn/idl_libraries/coyote"
	defaultBroadenRoutine = "/home/thomasn/grids/gaussbroad.pro"
	defaultExtractRoutine = "/home/thomasn/grids/get_spec.pro"
	defaultGridPath       = "/home/thomasn/grids/grid_synthspec.sav"
	defaultStartupTimeout = 60
	defaultInstrument     = "wifes-7000"
	defaultNormalization  = 1
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Engine: Engine{
			Binary:         defaultEngineBinary,
			Prompt:         defaultEnginePrompt,
			LibraryPath:    defaultLibraryPath,
			BroadenRoutine: defaultBroadenRoutine,
			ExtractRoutine: defaultExtractRoutine,
			GridPath:       defaultGridPath,
			StartupTimeout: defaultStartupTimeout,
			// No command timeout: a synthesis call can legitimately run for
			// a long time and the engine offers no way to resume one.
			CommandTimeout: 0,
		},
		Synthesis: Synthesis{
			Instrument:    defaultInstrument,
			Normalization: defaultNormalization,
			Resample:      true,
		},
		Catalog: Catalog{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
