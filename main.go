package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/illarion/pwcrypt/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encrypt":
		runEncrypt(os.Args[2:])
	case "decrypt":
		runDecrypt(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "form":
		runForm(os.Args[2:])
	case "keyring":
		runKeyring(os.Args[2:])
	case "algorithms":
		cmd.Algorithms()
	case "salt":
		cmd.Salt()
	case "status":
		runStatus(os.Args[2:])
	case "compact":
		runCompact(os.Args[2:])
	case "completion":
		runCompletion(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// globalFlags are accepted by every command that loads configuration
type globalFlags struct {
	config  *string
	profile *string
}

func addGlobalFlags(fs *flag.FlagSet) globalFlags {
	return globalFlags{
		config:  fs.String("config", "", "Config file (default ./pwcrypt.yaml)"),
		profile: fs.String("profile", "", "Keyring profile"),
	}
}

func (g globalFlags) setup() *cmd.Env {
	env := cmd.Setup(*g.config)
	if *g.profile != "" {
		env.Config.Profile = *g.profile
	}
	return env
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func runEncrypt(args []string) {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	g := addGlobalFlags(fs)
	algShort := fs.String("a", "", "Cipher algorithm")
	algLong := fs.String("algorithm", "", "Cipher algorithm")
	stdin := fs.Bool("stdin", false, "Read the password from stdin")
	parse(fs, args)

	env := g.setup()
	defer env.Close()

	cmd.Encrypt(env, firstNonEmpty(*algShort, *algLong), *stdin)
}

func runDecrypt(args []string) {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	g := addGlobalFlags(fs)
	algShort := fs.String("a", "", "Cipher algorithm")
	algLong := fs.String("algorithm", "", "Cipher algorithm")
	parse(fs, args)

	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: pwcrypt decrypt [-a <algorithm>] [<encrypted>]")
		os.Exit(1)
	}

	env := g.setup()
	defer env.Close()

	cmd.Decrypt(env, firstNonEmpty(*algShort, *algLong), fs.Arg(0))
}

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	g := addGlobalFlags(fs)
	form := fs.String("form", "", "Form database")
	parse(fs, args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: pwcrypt validate [--form <path>] <field>")
		os.Exit(1)
	}

	env := g.setup()
	defer env.Close()

	cmd.Validate(env, *form, fs.Arg(0))
}

func runForm(args []string) {
	if len(args) < 1 {
		printCommandHelp("form")
		os.Exit(1)
	}

	sub := args[0]
	fs := flag.NewFlagSet("form "+sub, flag.ExitOnError)
	g := addGlobalFlags(fs)
	form := fs.String("form", "", "Form database")
	value := fs.String("value", "", "Field value (prompted when omitted)")
	parse(fs, args[1:])

	requireArgs := func(n int, usage string) {
		if fs.NArg() < n {
			fmt.Fprintf(os.Stderr, "Usage: pwcrypt form %s\n", usage)
			os.Exit(1)
		}
	}

	env := g.setup()
	defer env.Close()

	switch sub {
	case "init":
		cmd.FormInit(env, *form)
	case "set":
		requireArgs(1, "set [--value <value>] <field>")
		var v *string
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "value" {
				v = value
			}
		})
		cmd.FormSet(env, *form, fs.Arg(0), v)
	case "get":
		requireArgs(1, "get <field>")
		cmd.FormGet(env, *form, fs.Arg(0))
	case "params":
		requireArgs(1, "params <field> [key=value...] [key...]")
		cmd.FormParams(env, *form, fs.Arg(0), fs.Args()[1:])
	case "ls":
		cmd.FormList(env, *form)
	case "rm":
		requireArgs(1, "rm <field> [field...]")
		cmd.FormRemove(env, *form, fs.Args())
	default:
		fmt.Fprintf(os.Stderr, "Unknown form command: %s\n", sub)
		printCommandHelp("form")
		os.Exit(1)
	}
}

func runKeyring(args []string) {
	if len(args) < 1 {
		printCommandHelp("keyring")
		os.Exit(1)
	}

	sub := args[0]
	fs := flag.NewFlagSet("keyring "+sub, flag.ExitOnError)
	g := addGlobalFlags(fs)
	parse(fs, args[1:])

	env := g.setup()
	defer env.Close()

	switch sub {
	case "save":
		cmd.KeyringSave(env)
	case "delete":
		cmd.KeyringDelete(env)
	case "status":
		cmd.KeyringStatus(env)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", sub)
		printCommandHelp("keyring")
		os.Exit(1)
	}
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	g := addGlobalFlags(fs)
	form := fs.String("form", "", "Form database")
	parse(fs, args)

	env := g.setup()
	defer env.Close()

	cmd.Status(env, *form)
}

func runCompact(args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	g := addGlobalFlags(fs)
	form := fs.String("form", "", "Form database")
	parse(fs, args)

	env := g.setup()
	defer env.Close()

	cmd.Compact(env, *form)
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pwcrypt completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printUsage() {
	fmt.Println("pwcrypt - Password field encryption")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pwcrypt <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  encrypt     Encrypt a password with the configured passphrase")
	fmt.Println("  decrypt     Decrypt an encrypted password")
	fmt.Println("  validate    Run the encryption validator on a form field")
	fmt.Println("  form        Manage the form database (init, set, get, params, ls, rm)")
	fmt.Println("  keyring     Manage the passphrase in the OS keyring (save, delete, status)")
	fmt.Println("  algorithms  List supported cipher algorithms")
	fmt.Println("  salt        Generate a salt for pbkdf2 key derivation")
	fmt.Println("  status      Show configuration, passphrase source and git exposure")
	fmt.Println("  compact     Compact the form database")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  pwcrypt encrypt                       # Prompt for a password, print ciphertext")
	fmt.Println("  echo hunter2 | pwcrypt encrypt -a DES # Encrypt from stdin")
	fmt.Println("  pwcrypt form params db_password encryptionKey=s3cret algorithm=AES")
	fmt.Println("  pwcrypt validate db_password          # Encrypt the field in place")
	fmt.Println()
	fmt.Println("Use 'pwcrypt help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "encrypt":
		fmt.Println("pwcrypt encrypt [-a|--algorithm <name>] [--stdin]")
		fmt.Println()
		fmt.Println("Encrypts a password and prints it as base64.")
		fmt.Println("The passphrase comes from encryption_key in the config, PWCRYPT_ENCRYPTION_KEY,")
		fmt.Println("the OS keyring, or a prompt, in that order.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -a, --algorithm   Cipher algorithm (default from config, AES)")
		fmt.Println("  --stdin           Read the password from stdin instead of prompting")
		fmt.Println("  --config          Config file")
		fmt.Println("  --profile         Keyring profile")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  pwcrypt encrypt")
		fmt.Println("  pwcrypt encrypt -a Blowfish")
		fmt.Println("  echo hunter2 | pwcrypt encrypt --stdin")
	case "decrypt":
		fmt.Println("pwcrypt decrypt [-a|--algorithm <name>] [<encrypted>]")
		fmt.Println()
		fmt.Println("Decrypts a value produced by 'pwcrypt encrypt' or 'pwcrypt validate'.")
		fmt.Println("Reads the value from stdin when no argument is given.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  pwcrypt decrypt 3q2+7w==")
		fmt.Println("  pwcrypt form get db_password | pwcrypt decrypt")
	case "validate":
		fmt.Println("pwcrypt validate [--form <path>] <field>")
		fmt.Println()
		fmt.Println("Runs the encryption validator on a stored field.")
		fmt.Println("If the field has both encryptionKey and algorithm parameters, its value")
		fmt.Println("is encrypted and written back. Otherwise the field passes unchanged.")
		fmt.Println("Exits with status 1 when encryption fails.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  pwcrypt validate db_password")
	case "form":
		fmt.Println("pwcrypt form <init|set|get|params|ls|rm> [--form <path>] [arguments]")
		fmt.Println()
		fmt.Println("Manages the form database that holds field values and validator parameters.")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  init                        Create the form database")
		fmt.Println("  set [--value v] <field>     Store a field value (prompted when omitted)")
		fmt.Println("  get <field>                 Print a field value")
		fmt.Println("  params <field> [k=v] [k]    Show, set or remove validator parameters")
		fmt.Println("  ls                          List fields")
		fmt.Println("  rm <field> [field...]       Remove fields")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  pwcrypt form init")
		fmt.Println("  pwcrypt form set db_password")
		fmt.Println("  pwcrypt form params db_password encryptionKey=s3cret algorithm=AES")
		fmt.Println("  pwcrypt form params db_password encryptionKey   # remove the key")
	case "keyring":
		fmt.Println("pwcrypt keyring <save|delete|status> [--profile <name>]")
		fmt.Println()
		fmt.Println("Stores the encryption passphrase in the OS keyring so encrypt and")
		fmt.Println("decrypt do not prompt for it.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  pwcrypt keyring save")
		fmt.Println("  pwcrypt keyring status --profile staging")
	case "algorithms":
		fmt.Println("pwcrypt algorithms")
		fmt.Println()
		fmt.Println("Lists supported cipher algorithms with key and block sizes.")
	case "salt":
		fmt.Println("pwcrypt salt")
		fmt.Println()
		fmt.Println("Prints a random base64 salt for derivation.salt when derivation.kind is pbkdf2.")
	case "status":
		fmt.Println("pwcrypt status [--form <path>]")
		fmt.Println()
		fmt.Println("Shows the active configuration, where the passphrase will come from,")
		fmt.Println("and warns when the config file or form database is tracked by git")
		fmt.Println("or missing from .gitignore.")
		fmt.Println()
		fmt.Println("Does not require a passphrase.")
	case "compact":
		fmt.Println("pwcrypt compact [--form <path>]")
		fmt.Println()
		fmt.Println("Compacts the form database to reclaim unused disk space.")
		fmt.Println()
		fmt.Println("Does not require a passphrase.")
	case "completion":
		fmt.Println("pwcrypt completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(pwcrypt completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(pwcrypt completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  pwcrypt completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
