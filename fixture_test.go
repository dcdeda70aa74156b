package miniregex

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v2"
	"gotest.tools/v3/assert"
)

// fixtureCase mirrors one entry of testdata/match_tests.yaml.
type fixtureCase struct {
	Name    string    `yaml:"name"`
	Pattern string    `yaml:"pattern"`
	Input   string    `yaml:"input"`
	Mode    string    `yaml:"mode"`
	Ready   bool      `yaml:"ready"`
	Groups  []*string `yaml:"groups"`
}

func loadFixtures(t *testing.T) []fixtureCase {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "match_tests.yaml"))
	assert.NilError(t, err)

	var cases []fixtureCase
	assert.NilError(t, yaml.Unmarshal(data, &cases))
	assert.Assert(t, len(cases) > 0, "no fixtures loaded")
	return cases
}

func TestMatchFixtures(t *testing.T) {
	for _, tc := range loadFixtures(t) {
		t.Run(tc.Name, func(t *testing.T) {
			re, err := Compile(tc.Pattern)
			assert.NilError(t, err)

			res := re.MatchString(tc.Input)
			if tc.Mode == "search" {
				res = re.SearchString(tc.Input)
			}

			assert.Equal(t, tc.Ready, res.Ready(), "ready flag")
			if !tc.Ready {
				return
			}

			assert.Equal(t, len(tc.Groups), res.GroupCount(), "group count")
			for i, want := range tc.Groups {
				sub := res.Group(i)
				if want == nil {
					assert.Assert(t, !sub.Matched, "group %d should not participate", i)
					continue
				}
				assert.Assert(t, sub.Matched, "group %d should participate", i)
				assert.Equal(t, *want, res.Text(i), "group %d", i)
			}
		})
	}
}
