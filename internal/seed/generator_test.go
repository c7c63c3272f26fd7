package seed

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator(t *testing.T) {
	Convey("Given a candidate generator", t, func() {
		g := NewGenerator()

		Convey("Generated candidates satisfy the admission rules", func() {
			for i := 0; i < 100; i++ {
				c := g.Candidate()
				So(strings.HasPrefix(c.Handle, "cand-"), ShouldBeTrue)
				So(c.BaseScore, ShouldBeBetweenOrEqual, 40, 100)
				So(c.TenureYears, ShouldBeBetweenOrEqual, 1, 20)
				So(len(c.Credentials), ShouldBeGreaterThanOrEqualTo, 3)
				for _, cred := range c.Credentials {
					So(cred.Label, ShouldNotBeEmpty)
					So(cred.Issuer, ShouldNotBeEmpty)
					So([]string{"skill", "character", "certification", "project", "loyalty"},
						ShouldContain, cred.Category)
				}
			}
		})

		Convey("Handles are unique across candidates", func() {
			seen := make(map[string]struct{})
			for i := 0; i < 50; i++ {
				c := g.Candidate()
				_, dup := seen[c.Handle]
				So(dup, ShouldBeFalse)
				seen[c.Handle] = struct{}{}
			}
		})
	})
}

func TestParseFlags(t *testing.T) {
	Convey("Seed flags", t, func() {
		Convey("Defaults are sensible", func() {
			cfg, err := ParseFlags(nil)
			So(err, ShouldBeNil)
			So(cfg.APIBase, ShouldEqual, "http://localhost:9080")
			So(cfg.Candidates, ShouldEqual, 25)
			So(cfg.Continuous, ShouldBeFalse)
			So(cfg.Interval, ShouldEqual, 30*time.Second)
		})

		Convey("Flags override defaults", func() {
			cfg, err := ParseFlags([]string{"-api", "http://example:8000", "-candidates", "5", "-continuous"})
			So(err, ShouldBeNil)
			So(cfg.APIBase, ShouldEqual, "http://example:8000")
			So(cfg.Candidates, ShouldEqual, 5)
			So(cfg.Continuous, ShouldBeTrue)
		})
	})
}
