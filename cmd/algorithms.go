package cmd

import (
	"fmt"
	"strings"

	"github.com/illarion/pwcrypt/internal/crypto"
)

// Algorithms lists the supported algorithms
func Algorithms() {
	fmt.Println("Supported algorithms:")
	for _, alg := range crypto.Algorithms() {
		aliases := ""
		if len(alg.Aliases) > 0 {
			aliases = " (" + strings.Join(alg.Aliases, ", ") + ")"
		}
		fmt.Printf("  %-10s key %3d bits, block %3d bits%s\n", alg.Name, alg.KeySize*8, alg.BlockSize*8, aliases)
	}
}
