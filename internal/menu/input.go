package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidInput ожидалось число, а пришло что-то другое
var ErrInvalidInput = errors.New("invalid input")

// ParseInt разбирает первое слово строки как целое
func ParseInt(line string) (int64, error) {
	tok, ok := firstToken(line)
	if !ok {
		return 0, ErrInvalidInput
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, tok)
	}
	return v, nil
}

// ParseFloat разбирает первое слово строки как конечное десятичное число
func ParseFloat(line string) (float64, error) {
	tok, ok := firstToken(line)
	if !ok {
		return 0, ErrInvalidInput
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, tok)
	}
	return v, nil
}

func firstToken(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// Prompter политика повторного запроса поверх ParseInt/ParseFloat.
// Повторяет без ограничения числа попыток; io.EOF прекращает ввод.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Line печатает prompt и возвращает строку без перевода строки
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	return p.readLine()
}

func (p *Prompter) Int(prompt string) (int64, error) {
	fmt.Fprint(p.out, prompt)
	for {
		line, err := p.readNonBlank()
		if err != nil {
			return 0, err
		}
		v, err := ParseInt(line)
		if err == nil {
			return v, nil
		}
		fmt.Fprint(p.out, " X Invalid input. Please enter a number.\n", prompt)
	}
}

func (p *Prompter) Float(prompt string) (float64, error) {
	fmt.Fprint(p.out, prompt)
	for {
		line, err := p.readNonBlank()
		if err != nil {
			return 0, err
		}
		v, err := ParseFloat(line)
		if err == nil {
			return v, nil
		}
		fmt.Fprint(p.out, " X Invalid input. Please enter a number.\n", prompt)
	}
}

// readNonBlank пропускает пустые строки, как это делает потоковый ввод числа
func (p *Prompter) readNonBlank() (string, error) {
	for {
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
