// Package mobutils is the small subject the doubles are exercised against: a calculator
// with a string check, a free function, and a service
// that consumes both through injected dependencies.
package mobutils

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// CodeLength is the length CheckLength accepts.
const CodeLength = 4

// Calculator is the capability interface doubles implement.
type Calculator interface {
	// Add returns the sum of i and j.
	Add(i, j int) int

	// CheckLength reports whether text is exactly CodeLength characters long.
	CheckLength(text string) bool
}

// EmptyChecker wraps the free function IsEmpty so it can be replaced through an interface.
type EmptyChecker interface {
	IsEmpty(text string) bool
}

// MobUtils is the real Calculator.
type MobUtils struct {
	log logrus.FieldLogger
}

// New creates a MobUtils logging to log; a nil log discards output.
func New(log logrus.FieldLogger) *MobUtils {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	log.Debug("MobUtils constructed")

	return &MobUtils{log: log}
}

func (m *MobUtils) Add(i, j int) int {
	return i + j
}

func (m *MobUtils) CheckLength(text string) bool {
	m.log.WithField("text", text).Debug("checking length")

	return !IsEmpty(text) && utf8.RuneCountInString(text) == CodeLength
}

func (m *MobUtils) minus(i, j int) int {
	return i - j
}

// IsEmpty reports whether text is empty.
func IsEmpty(text string) bool {
	return text == ""
}

// StaticChecker is the real EmptyChecker, delegating to IsEmpty.
type StaticChecker struct{}

func (StaticChecker) IsEmpty(text string) bool {
	return IsEmpty(text)
}

// Errors returned by Service.Submit.
var (
	ErrEmptyCode = errors.New("empty code")
	ErrBadCode   = errors.New("code has the wrong length")
)

// Service adds two amounts once a code has been validated. Its dependencies are injected
// through NewService, which is where tests hand it doubles.
type Service struct {
	calc    Calculator
	isEmpty func(string) bool
}

// NewService wires a Service. A nil isEmpty uses IsEmpty.
func NewService(calc Calculator, isEmpty func(string) bool) *Service {
	if isEmpty == nil {
		isEmpty = IsEmpty
	}

	return &Service{calc: calc, isEmpty: isEmpty}
}

// Submit validates code and returns a+b.
func (s *Service) Submit(code string, a, b int) (int, error) {
	if s.isEmpty(code) {
		return 0, ErrEmptyCode
	}

	if !s.calc.CheckLength(code) {
		return 0, fmt.Errorf("%w: %q", ErrBadCode, code)
	}

	return s.calc.Add(a, b), nil
}
