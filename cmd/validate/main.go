// Command validate checks a classification rules file and, optionally,
// previews how a saved alerts feed would be classified with it. It makes no
// network calls and has no side effects.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -rules config/rules.yaml \
//	  -feed testdata/active.geojson
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/nws-alert-monitor/internal/adapter/nws"
	"github.com/couchcryptid/nws-alert-monitor/internal/config"
	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rulesPath := flag.String("rules", "", "rules YAML file (default: built-in rules)")
	feedPath := flag.String("feed", "", "saved alerts GeoJSON to classify")
	flag.Parse()

	os.Exit(run(*rulesPath, *feedPath))
}

func run(rulesPath, feedPath string) int {
	fmt.Println("=== Alert Rules Validation ===")
	fmt.Println()

	rules := domain.DefaultRules()
	if rulesPath != "" {
		var err error
		rules, err = config.LoadRules(rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
	}

	phases := []*phase{validateRules(rules)}

	var records []domain.RawAlertRecord
	if feedPath != "" {
		var err error
		records, err = loadFeed(feedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load feed: %v\n", err)
			return 1
		}
		phases = append(phases, validateClassification(records, rules))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	if feedPath != "" {
		printSummary(records, rules)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadFeed(path string) ([]domain.RawAlertRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return nws.DecodeFeed(f)
}

// validateRules checks that every category can match something and that no
// keyword is unreachable because an earlier category claims it first.
func validateRules(rules domain.Rules) *phase {
	p := &phase{name: "Rules"}

	for i, c := range domain.Categories {
		keywords := rules.Keywords[c]
		if len(keywords) == 0 {
			p.errorf("%s: no keywords, category can never match", c)
		}
		for _, kw := range keywords {
			if strings.TrimSpace(kw) == "" {
				p.errorf("%s: empty keyword matches every event", c)
				continue
			}
			for _, earlier := range domain.Categories[:i] {
				for _, ek := range rules.Keywords[earlier] {
					if ek != "" && strings.Contains(kw, ek) {
						p.errorf("%s: keyword %q is shadowed by %s keyword %q", c, kw, earlier, ek)
					}
				}
			}
		}
	}

	for _, ex := range rules.Exclude {
		if strings.TrimSpace(ex) == "" {
			p.errorf("exclude: empty marker drops every alert")
		}
	}
	return p
}

// validateClassification checks each feed record on its own: a record must
// land in at most one category. Records are keyed by position because
// distinct alerts may share a headline and description.
func validateClassification(records []domain.RawAlertRecord, rules domain.Rules) *phase {
	p := &phase{name: "Feed classification"}

	total := 0
	for i, rec := range records {
		cls := domain.Classify([]domain.RawAlertRecord{rec}, rules)
		var hits []string
		for _, c := range domain.Categories {
			if len(cls[c]) > 0 {
				hits = append(hits, string(c))
			}
		}
		if len(hits) > 1 {
			p.errorf("record %d (%q) classified as %s", i, rec.Headline, strings.Join(hits, " and "))
		}
		total += cls.Total()
	}
	if all := domain.Classify(records, rules).Total(); all != total {
		p.errorf("classified %d alerts from the feed but %d record by record", all, total)
	}
	return p
}

func printSummary(records []domain.RawAlertRecord, rules domain.Rules) {
	cls := domain.Classify(records, rules)
	fmt.Println()
	fmt.Printf("Records: %d fetched, %d classified\n", len(records), cls.Total())
	for _, c := range domain.Categories {
		fmt.Printf("  %-36s %d\n", c.Label(), len(cls[c]))
		for _, a := range cls[c] {
			fmt.Printf("      %s\n", a.Headline)
		}
	}
}
