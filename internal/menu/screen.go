package menu

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const clearSequence = "\033[H\033[2J"

// Screen очистка экрана и пауза имеют смысл только на терминале
type Screen struct {
	out         io.Writer
	prompter    *Prompter
	interactive bool
}

func NewScreen(out io.Writer, p *Prompter, interactive bool) *Screen {
	return &Screen{out: out, prompter: p, interactive: interactive}
}

// IsTerminal проверяет, подключён ли файл к терминалу
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (s *Screen) Clear() {
	if s.interactive {
		fmt.Fprint(s.out, clearSequence)
	}
}

// Pause ждёт Enter; EOF возвращается, чтобы меню могло завершиться
func (s *Screen) Pause() error {
	if !s.interactive {
		return nil
	}
	_, err := s.prompter.Line("\nPress Enter to continue...")
	return err
}
