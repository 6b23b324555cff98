package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/jasyptor/internal/document"
	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/jasyptconf"
	"github.com/PolarWolf314/jasyptor/internal/ui"
	"github.com/PolarWolf314/jasyptor/internal/utils"
	"github.com/PolarWolf314/jasyptor/internal/workflows"
)

var (
	valuePassword   string
	valueAlgorithm  string
	valueIterations int
	valueConfigFile string
	valueBare       bool
	valueEnvFiles   []string
)

func init() {
	for _, c := range []*cobra.Command{encryptCmd, decryptCmd} {
		c.Flags().StringVarP(&valuePassword, "password", "p", "", "encryption password, or ${NAME} to read it from the environment")
		c.Flags().StringVarP(&valueAlgorithm, "algorithm", "a", "", "PBE algorithm (default from preferences, else PBEWithHMACSHA512AndAES_256)")
		c.Flags().IntVar(&valueIterations, "iterations", 0, "key obtention iterations (default 1000)")
		c.Flags().StringVarP(&valueConfigFile, "config", "c", "", "take settings from this file's jasypt section or its application.yml")
		c.Flags().StringArrayVar(&valueEnvFiles, "env-file", nil, "dotenv file consulted for ${NAME} passwords (repeatable)")
	}
	encryptCmd.Flags().BoolVar(&valueBare, "bare", false, "print the ciphertext without the ENC(...) wrapper")
}

func resetValueState() {
	valuePassword = ""
	valueAlgorithm = ""
	valueIterations = 0
	valueConfigFile = ""
	valueBare = false
	valueEnvFiles = nil
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [value]",
	Short: "Encrypt a single value",
	Long: `Encrypts one value and prints it as ENC(ciphertext), ready to paste into
a configuration file. The value is read from stdin when not given.

Settings come from, in order: the flags, the file given with --config,
your preferences (jasyptor config set), and finally a password prompt.

Examples:
  jasyptor encrypt --config src/main/resources/application.yml 'db-password'
  echo -n 'db-password' | jasyptor encrypt -p '${JASYPT_PASSWORD}' --bare`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		opts, err := valueOptions(args)
		if err != nil {
			return err
		}

		out, err := workflows.EncryptValue(cmd.Context(), opts)
		if err != nil {
			return valueError("encrypt", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [value]",
	Short: "Decrypt a single ENC(...) value or bare ciphertext",
	Long: `Decrypts one value, given either as ENC(ciphertext) or as the bare
ciphertext, and prints the plaintext. The value is read from stdin when
not given.

Examples:
  jasyptor decrypt --config application.yml 'ENC(3q2+7w==...)'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		opts, err := valueOptions(args)
		if err != nil {
			return err
		}

		out, err := workflows.DecryptValue(cmd.Context(), opts)
		if err != nil {
			return valueError("decrypt", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func valueOptions(args []string) (workflows.ValueOptions, error) {
	Logger.Debugf("Flags: algorithm=%q, iterations=%d, config=%q, bare=%t", valueAlgorithm, valueIterations, valueConfigFile, valueBare)

	value, fromStdin := "", false
	if len(args) == 1 {
		value = args[0]
	} else {
		if utils.IsTerminal() {
			return workflows.ValueOptions{}, fmt.Errorf("no value given; pass it as an argument or on stdin")
		}
		Logger.Debugf("Reading value from stdin")
		v, err := utils.ReadStdin()
		if err != nil {
			return workflows.ValueOptions{}, Logger.ErrorfAndReturn("failed to read stdin: %v", err)
		}
		value, fromStdin = v, true
	}

	if valuePassword != "" {
		if _, isRef := jasyptconf.ParseEnvRef(valuePassword); !isRef {
			Logger.WarnfAlways("Passwords given with --password may end up in your shell history, consider ${NAME} or a prompt")
		}
	}

	prefs, _, err := loadPreferences()
	if err != nil {
		return workflows.ValueOptions{}, err
	}
	env, err := buildEnv(valueEnvFiles)
	if err != nil {
		return workflows.ValueOptions{}, err
	}

	return workflows.ValueOptions{
		Value:          value,
		ConfigFile:     valueConfigFile,
		Password:       valuePassword,
		Algorithm:      valueAlgorithm,
		Iterations:     valueIterations,
		Bare:           valueBare,
		Env:            env,
		Loader:         document.FS{},
		Preferences:    prefs,
		PromptPassword: passwordPrompt(fromStdin),
	}, nil
}

// valueError turns workflow errors into messages that say what to do.
func valueError(op string, err error) error {
	switch {
	case errors.Is(err, kerrors.ErrDecryptionNotPossible):
		return fmt.Errorf("%s value is not ciphertext for these settings; check the password and algorithm", ui.Kind.Sprint(kerrors.Kind(err)))
	case errors.Is(err, kerrors.ErrConfigNotFound):
		return fmt.Errorf("%s %v; pass --password or set jasypt.encryptor.password", ui.Kind.Sprint(kerrors.Kind(err)), err)
	}
	return Logger.ErrorfAndReturn("failed to %s value: %s %v", op, ui.Kind.Sprint(kerrors.Kind(err)), err)
}
