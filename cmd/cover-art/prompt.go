package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
)

const promptLabel = "Enter artist name"

// promptArtist asks for an artist name. On a terminal it uses an interactive
// prompt; otherwise it reads one line from in.
func promptArtist(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		prompt := promptui.Prompt{
			Label: promptLabel,
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("artist name is required")
				}
				return nil
			},
		}
		name, err := prompt.Run()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(name), nil
	}

	return readArtist(in, out)
}

func readArtist(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, promptLabel+": ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading artist name: %w", err)
	}
	return strings.TrimSpace(line), nil
}
