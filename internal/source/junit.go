package source

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshdk/go-junit"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/newman"
)

// LoadJUnit reads a JUnit XML file into a run summary. Every testcase
// becomes one execution carrying one assertion: the classname is the item,
// the testcase name the assertion, and nested suite names the ancestors.
// The collection is named after the file.
// Uses github.com/joshdk/go-junit so all JUnit XML variants are accepted.
func LoadJUnit(path string) (*newman.RunSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := checkJUnitRoot(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	suites, err := junit.Ingest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JUnit XML %s: %w", path, err)
	}

	base := filepath.Base(path)
	summary := &newman.RunSummary{
		Collection: newman.Collection{
			Info:  newman.Info{Name: strings.TrimSuffix(base, filepath.Ext(base))},
			Items: []newman.Item{},
		},
	}

	for _, suite := range suites {
		addSuite(summary, suite, nil)
	}

	return summary, nil
}

// checkJUnitRoot requires a <testsuites> or <testsuite> root element.
// go-junit ingests anything, so text that is not XML would otherwise load
// as an empty run.
func checkJUnitRoot(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: no JUnit root element", ErrMalformedInput)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "testsuites", "testsuite":
			return nil
		default:
			return fmt.Errorf("%w: unexpected root element <%s>", ErrMalformedInput, start.Name.Local)
		}
	}
}

func addSuite(summary *newman.RunSummary, suite junit.Suite, parents []string) {
	chain := append([]string{}, parents...)
	if suite.Name != "" {
		chain = append(chain, suite.Name)
	}

	for _, test := range suite.Tests {
		summary.Run.Executions = append(summary.Run.Executions, newman.Execution{
			Item: newman.ExecutionItem{
				Name:      test.Classname,
				Ancestors: chain,
			},
			Response: &newman.Response{
				ResponseTime: float64(test.Duration.Milliseconds()),
			},
			Assertions: []newman.Assertion{assertionFor(test)},
		})
	}

	for _, child := range suite.Suites {
		addSuite(summary, child, chain)
	}
}

func assertionFor(test junit.Test) newman.Assertion {
	a := newman.Assertion{Assertion: test.Name}

	switch test.Status {
	case junit.StatusFailed, junit.StatusError:
		a.Error = &newman.AssertionError{Name: string(test.Status), Message: test.Message}

		var jerr junit.Error
		if errors.As(test.Error, &jerr) {
			if jerr.Message != "" {
				a.Error.Message = jerr.Message
			}
			if jerr.Type != "" {
				a.Error.Name = jerr.Type
			}
			a.Error.Stack = jerr.Body
		} else if test.Error != nil {
			a.Error.Stack = test.Error.Error()
		}
	case junit.StatusSkipped:
		a.Skipped = true
	}

	return a
}
