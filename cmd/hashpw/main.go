// Command hashpw prints a bcrypt hash of an administrator password, for
// seeding the admins table of the gym API.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/dmitrijs2005/gymadmin/internal/common"
)

var errEmptyPassword = errors.New("password must not be empty")

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	var in io.Reader = os.Stdin
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			log.Fatalf("read password: %v", err)
		}
		defer common.WipeByteArray(pw)
		in = bytes.NewReader(pw)
	}

	if err := writeHash(in, os.Stdout, *cost); err != nil {
		log.Fatal(err)
	}
}

// writeHash reads one line from in as the password and writes its bcrypt
// hash to out.
func writeHash(in io.Reader, out io.Writer, cost int) error {
	line, err := bufio.NewReader(in).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read password: %w", err)
	}
	defer common.WipeByteArray(line)

	password := bytes.TrimRight(line, "\r\n")
	if len(password) == 0 {
		return errEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = fmt.Fprintln(out, string(hash))
	return err
}
