package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/PolarWolf314/jasyptor/internal/configs"
	"github.com/PolarWolf314/jasyptor/internal/jasyptconf"
	"github.com/PolarWolf314/jasyptor/internal/ui"
	"github.com/PolarWolf314/jasyptor/internal/utils"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do not need trailing newlines. The cleanup function
// prints the final message to out with ui.EnsureNewline applied.
func startSpinner(message string, out io.Writer) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(out, finalMsg)
		}
	}

	return s, cleanup
}

// setSpinnerSuffix updates the spinner text while it is running.
func setSpinnerSuffix(s *spinner.Spinner, suffix string) {
	s.Lock()
	s.Suffix = " " + suffix
	s.Unlock()
}

// loadPaths returns the per-user file locations.
func loadPaths() (configs.Paths, error) {
	paths, err := configs.DefaultPaths()
	if err != nil {
		return configs.Paths{}, Logger.ErrorfAndReturn("failed to locate the config directory: %v", err)
	}
	Logger.Debugf("Preferences: %s, audit log: %s", paths.PreferencesPath, paths.AuditPath)
	return paths, nil
}

// loadPreferences opens the user's preferences file.
func loadPreferences() (configs.Preferences, configs.Paths, error) {
	paths, err := loadPaths()
	if err != nil {
		return nil, configs.Paths{}, err
	}
	return configs.NewFileStore(paths.PreferencesPath), paths, nil
}

// buildEnv layers the given dotenv files under the process environment.
func buildEnv(envFiles []string) (jasyptconf.Env, error) {
	if len(envFiles) == 0 {
		return jasyptconf.OSEnv{}, nil
	}
	Logger.Debugf("Loading env files: %v", envFiles)
	dotenv, err := jasyptconf.DotenvEnv(envFiles...)
	if err != nil {
		return nil, Logger.ErrorfAndReturn("failed to load env file: %v", err)
	}
	return jasyptconf.ChainEnv{jasyptconf.OSEnv{}, dotenv}, nil
}

// passwordPrompt returns a prompt for the encryption password, or nil when
// there is no terminal to ask on. fromStdin means stdin carries the value,
// so the prompt goes through the controlling tty instead.
func passwordPrompt(fromStdin bool) func() (string, error) {
	if fromStdin {
		return func() (string, error) {
			pw, err := utils.ReadPassphraseFromTTY("Encryption password: ")
			return string(pw), err
		}
	}
	if !utils.IsTerminal() {
		return nil
	}
	return func() (string, error) {
		pw, err := utils.ReadPassphrase("Encryption password: ")
		return string(pw), err
	}
}
