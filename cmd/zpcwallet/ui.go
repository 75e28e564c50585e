package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	"github.com/muesli/termenv"
	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/term"
	lang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	maxWidth = 72
)

var (
	baseStyle = lipgloss.NewStyle().Margin(0, 0, 1, 2) //nolint:mnd
	red       = lipgloss.Color(completeColor("#FF4444", "196", "9"))
	violet    = lipgloss.Color(completeColor("#C69FF5", "141", "5"))

	errorStyle = baseStyle.
			Foreground(red).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#FFEBEB", "255", "7"), Dark: completeColor("#2B1A1A", "235", "8")}).
			Padding(1, 2) //nolint:mnd

	mnemonicStyle = baseStyle.
			Foreground(violet).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#EEE6FF", "255", "7"), Dark: completeColor("#1B1731", "235", "8")}).
			Padding(1, 2) //nolint:mnd

	labelStyle = lipgloss.NewStyle().Bold(true)
)

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func getWidth(maxw int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint: gosec
	if err != nil || w > maxw {
		return maxWidth
	}
	return w
}

func renderBlock(w io.Writer, s lipgloss.Style, width int, str string) {
	_, _ = io.WriteString(w, s.Width(width).Render(str))
	_, _ = io.WriteString(w, "\n")
}

// printError writes err to stderr, styled when attached to a terminal.
func printError(err error) {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		b := strings.Builder{}
		b.WriteRune('\n')
		renderBlock(&b, errorStyle, getWidth(maxWidth), err.Error())
		_, _ = fmt.Fprint(os.Stderr, b.String())
		return
	}
	_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
}

// printMnemonic shows a recovery phrase once, numbered, in a highlighted
// block.
func printMnemonic(mnemonic string) {
	words := strings.Fields(mnemonic)
	if !isTerminal() {
		fmt.Println(strings.Join(words, " "))
		return
	}

	var b strings.Builder
	for i, word := range words {
		fmt.Fprintf(&b, "%2d. %-10s", i+1, word)
		if (i+1)%4 == 0 {
			b.WriteRune('\n')
		}
	}

	out := strings.Builder{}
	out.WriteRune('\n')
	renderBlock(&out, mnemonicStyle, getWidth(maxWidth), strings.TrimRight(b.String(), "\n"))
	fmt.Print(out.String())
	fmt.Println("  Write these words down in order and keep them offline.")
	fmt.Println("  They will not be shown again.")
	fmt.Println()
}

// printField prints a "label: value" line.
func printField(label, value string) {
	if isTerminal() {
		fmt.Printf("%s %s\n", labelStyle.Render(label+":"), value)
		return
	}
	fmt.Printf("%s: %s\n", label, value)
}

func completeColor(truecolor, ansi256, ansi string) string {
	//nolint: exhaustive
	switch lipgloss.ColorProfile() {
	case termenv.TrueColor:
		return truecolor
	case termenv.ANSI256:
		return ansi256
	}
	return ansi
}

func readPassword(msg string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, msg)
	t, err := tty.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open tty: %w", err)
	}
	defer t.Close()                                     //nolint: errcheck
	pass, err := term.ReadPassword(int(t.Input().Fd())) //nolint: gosec
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("could not read passphrase: %w", err)
	}
	return pass, nil
}

// readNewPassword asks for a passphrase twice and requires both to match.
func readNewPassword(msg string) ([]byte, error) {
	pass, err := readPassword(msg)
	if err != nil {
		return nil, err
	}
	if len(pass) == 0 {
		return nil, errors.New("passphrase cannot be empty")
	}

	again, err := readPassword("Repeat passphrase: ")
	if err != nil {
		clear(pass)
		return nil, err
	}
	defer clear(again)

	if !bytes.Equal(pass, again) {
		clear(pass)
		return nil, errors.New("passphrases do not match")
	}
	return pass, nil
}

// stdinIsPiped reports whether stdin is a pipe or file rather than a
// terminal. A stdin that cannot be inspected counts as a terminal.
func stdinIsPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}

// readMnemonic reads a recovery phrase from piped stdin, or from the
// terminal without echo.
func readMnemonic() (string, error) {
	if stdinIsPiped() {
		b, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			return "", fmt.Errorf("could not read recovery phrase: %w", err)
		}
		return string(b), nil
	}

	phrase, err := readPassword("Recovery phrase: ")
	if err != nil {
		return "", err
	}
	defer clear(phrase)
	return string(phrase), nil
}

// readPayload returns message if set, otherwise everything on piped stdin.
func readPayload(message string, set bool) ([]byte, error) {
	if set {
		return []byte(message), nil
	}
	if !stdinIsPiped() {
		return nil, errors.New("no payload: use --message or pipe it on stdin")
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("could not read payload: %w", err)
	}
	return b, nil
}

// setLanguage sets the language of the bip39 recovery phrase.
func setLanguage(language string) error {
	list := getWordlist(language)
	if list == nil {
		return fmt.Errorf("this language is not supported")
	}
	bip39.SetWordList(list)
	return nil
}

func sanitizeLang(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

var wordLists = map[lang.Tag][]string{
	lang.Chinese:              wordlists.ChineseSimplified,
	lang.SimplifiedChinese:    wordlists.ChineseSimplified,
	lang.TraditionalChinese:   wordlists.ChineseTraditional,
	lang.Czech:                wordlists.Czech,
	lang.AmericanEnglish:      wordlists.English,
	lang.BritishEnglish:       wordlists.English,
	lang.English:              wordlists.English,
	lang.French:               wordlists.French,
	lang.Italian:              wordlists.Italian,
	lang.Japanese:             wordlists.Japanese,
	lang.Korean:               wordlists.Korean,
	lang.Spanish:              wordlists.Spanish,
	lang.EuropeanSpanish:      wordlists.Spanish,
	lang.LatinAmericanSpanish: wordlists.Spanish,
}

func getWordlist(language string) []string {
	language = sanitizeLang(language)
	tag := lang.Make(language)
	en := display.English.Languages() // default language name matcher
	for t := range wordLists {
		if sanitizeLang(en.Name(t)) == language {
			tag = t
			break
		}
	}
	if tag == lang.Und { // Unknown language
		return nil
	}
	base, _ := tag.Base()
	btag := lang.MustParse(base.String())
	wl := wordLists[tag]
	if wl == nil {
		return wordLists[btag]
	}
	return wl
}
