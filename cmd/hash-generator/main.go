// Command hash-generator produces the bcrypt hash of a login passphrase for
// the LEXDAY_AUTH_PASSPHRASE_HASH configuration value.
//
// Usage:
//
//	hash-generator <passphrase>
package main

import (
	"fmt"
	"os"

	"github.com/lexday/lexday-api/internal/service/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator <passphrase>")
		os.Exit(2)
	}

	hash, err := auth.HashPassphrase(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash passphrase: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
