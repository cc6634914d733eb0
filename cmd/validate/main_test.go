package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
)

func TestValidateRules_Defaults(t *testing.T) {
	p := validateRules(domain.DefaultRules())
	assert.True(t, p.passed(), p.errors)
}

func TestValidateRules_Problems(t *testing.T) {
	rules := domain.DefaultRules()
	rules.Keywords[domain.CategoryTornadoWatch] = []string{"Tornado Warning Watch"}
	rules.Keywords[domain.CategoryThunderstormWatch] = nil
	rules.Exclude = []string{"AST", " "}

	p := validateRules(rules)
	require.Len(t, p.errors, 3)
	assert.Contains(t, p.errors[0], "shadowed")
	assert.Contains(t, p.errors[1], "can never match")
	assert.Contains(t, p.errors[2], "empty marker")
}

func TestValidateClassification(t *testing.T) {
	records := []domain.RawAlertRecord{
		{Event: "Tornado Warning", Headline: "H1", Description: "D1"},
		{Event: "Tornado Watch", Headline: "H2", Description: "D2"},
	}
	assert.True(t, validateClassification(records, domain.DefaultRules()).passed())
}

func TestValidateClassification_SharedIdentityAcrossCategories(t *testing.T) {
	// Records without headline or description share an identity but are
	// distinct alerts.
	records := []domain.RawAlertRecord{
		{Event: "Tornado Warning"},
		{Event: "Severe Thunderstorm Watch"},
		{Event: "Tornado Watch"},
	}
	p := validateClassification(records, domain.DefaultRules())
	assert.True(t, p.passed(), p.errors)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	feed := filepath.Join(dir, "active.geojson")
	require.NoError(t, os.WriteFile(feed, []byte(`{"features":[
		{"properties":{"event":"Tornado Warning","headline":"H1","description":"D1","areaDesc":"Travis, TX"}}
	]}`), 0o600))

	assert.Equal(t, 0, run("", feed))
	assert.Equal(t, 1, run(filepath.Join(dir, "missing.yaml"), ""))
	assert.Equal(t, 1, run("", filepath.Join(dir, "missing.geojson")))
}
