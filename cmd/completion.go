package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_pwcrypt() {
    local cur prev words cword
    _init_completion || return

    local commands="encrypt decrypt validate form keyring algorithms salt status compact help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        encrypt|decrypt)
            if [[ "$prev" == "-a" || "$prev" == "--algorithm" ]]; then
                local algs
                algs=$(pwcrypt algorithms 2>/dev/null | awk 'NR>1 {print $1}')
                COMPREPLY=($(compgen -W "$algs" -- "$cur"))
            elif [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-a --algorithm --stdin --config" -- "$cur"))
            fi
            ;;
        validate)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--form --config" -- "$cur"))
            else
                local fields
                fields=$(pwcrypt form ls 2>/dev/null | grep -E '^  ' | awk '{print $1}')
                COMPREPLY=($(compgen -W "$fields" -- "$cur"))
            fi
            ;;
        form)
            if [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "init set get params ls rm" -- "$cur"))
            else
                local fields
                fields=$(pwcrypt form ls 2>/dev/null | grep -E '^  ' | awk '{print $1}')
                COMPREPLY=($(compgen -W "$fields" -- "$cur"))
            fi
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _pwcrypt pwcrypt
`

const zshCompletion = `#compdef pwcrypt

_pwcrypt() {
    local -a commands
    commands=(
        'encrypt:Encrypt a password'
        'decrypt:Decrypt an encrypted password'
        'validate:Run the encryption validator on a form field'
        'form:Manage the form database'
        'keyring:Manage the passphrase stored in the OS keyring'
        'algorithms:List supported algorithms'
        'salt:Generate a salt for pbkdf2 key derivation'
        'status:Show configuration and git exposure'
        'compact:Compact the form database'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case "$words[2]" in
        encrypt|decrypt)
            _arguments \
                '(-a --algorithm)'{-a,--algorithm}'[Cipher algorithm]:algorithm:(AES DES DESede Blowfish Twofish CAST5 XTEA)' \
                '--stdin[Read the password from stdin]' \
                '--config[Config file]:file:_files'
            ;;
        validate)
            _arguments \
                '--form[Form database]:file:_files' \
                '--config[Config file]:file:_files' \
                '1:field:'
            ;;
        form)
            _values 'form command' init set get params ls rm
            ;;
        keyring)
            _values 'keyring command' save delete status
            ;;
        help)
            _describe 'command' commands
            ;;
        completion)
            _values 'shell' bash zsh fish
            ;;
    esac
}

_pwcrypt "$@"
`

const fishCompletion = `# pwcrypt completions for fish
set -l commands encrypt decrypt validate form keyring algorithms salt status compact help completion

complete -c pwcrypt -f
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a encrypt -d 'Encrypt a password'
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a decrypt -d 'Decrypt an encrypted password'
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a validate -d 'Run the encryption validator on a form field'
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a form -d 'Manage the form database'
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage the stored passphrase'
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a algorithms -d 'List supported algorithms'
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a salt -d 'Generate a pbkdf2 salt'
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show configuration and git exposure'
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact the form database'
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c pwcrypt -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate shell completions'

complete -c pwcrypt -n "__fish_seen_subcommand_from encrypt decrypt" -s a -l algorithm -x -a "AES DES DESede Blowfish Twofish CAST5 XTEA"
complete -c pwcrypt -n "__fish_seen_subcommand_from encrypt" -l stdin -d 'Read the password from stdin'
complete -c pwcrypt -n "__fish_seen_subcommand_from validate status compact" -l form -r -F
complete -c pwcrypt -n "__fish_seen_subcommand_from form" -a "init set get params ls rm"
complete -c pwcrypt -n "__fish_seen_subcommand_from keyring" -a "save delete status"
complete -c pwcrypt -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
