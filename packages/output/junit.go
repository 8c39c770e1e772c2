package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/codex/packages/core/runner"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents one run of a combination
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single tier
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a tier failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents a tier that could not be launched
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped represents a skipped tier
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter formats run results as JUnit XML
type JUnitFormatter struct {
	writer     io.Writer
	testSuites []JUnitTestSuite
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:     os.Stdout,
		testSuites: make([]JUnitTestSuite, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

func (f *JUnitFormatter) FormatResult(result *runner.Result) {
	suite := JUnitTestSuite{
		Name:      result.Combo,
		Tests:     len(result.Results),
		Failures:  result.Failed,
		Skipped:   result.Skipped,
		Time:      result.Duration.Seconds(),
		Timestamp: time.Now().Format(time.RFC3339),
		TestCases: make([]JUnitTestCase, 0, len(result.Results)),
	}

	for _, tr := range result.Results {
		tc := JUnitTestCase{
			Name:      tr.Name,
			ClassName: result.Combo,
			Time:      tr.Duration.Seconds(),
		}

		switch {
		case tr.Outcome == runner.OutcomeSkipped:
			tc.Skipped = &JUnitSkipped{Message: "default_enabled = false"}
		case tr.Err != nil:
			suite.Errors++
			suite.Failures--
			tc.Error = &JUnitError{
				Message: tr.Err.Error(),
				Type:    "Error",
			}
		case tr.Outcome == runner.OutcomeFailed:
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("exit code %d", tr.ExitCode),
				Type:    "TierFailure",
				Content: tr.Command,
			}
		}

		suite.TestCases = append(suite.TestCases, tc)
	}

	f.testSuites = append(f.testSuites, suite)
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are included in individual test cases
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	var totalTests, totalFailures, totalErrors, totalSkipped int
	for _, suite := range f.testSuites {
		totalTests += suite.Tests
		totalFailures += suite.Failures
		totalErrors += suite.Errors
		totalSkipped += suite.Skipped
	}

	suites := JUnitTestSuites{
		Name:       "codex",
		Tests:      totalTests,
		Failures:   totalFailures,
		Errors:     totalErrors,
		Skipped:    totalSkipped,
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.testSuites,
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}
