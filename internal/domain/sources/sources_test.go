package sources_test

import (
	"context"
	"testing"

	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/sources"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		r := sources.NewRegistry()
		ctx := context.Background()

		Convey("When requesting a citation by reference name", func() {
			alias, err := r.Get(ctx, model.SourceDescriptor{
				Reference: "Asiago Supernova Catalogue",
				URL:       "http://graspa.oapd.inaf.it/cgi-bin/sncat.php",
				Secondary: true,
			})

			Convey("Then a 1-based alias is assigned", func() {
				So(err, ShouldBeNil)
				So(alias, ShouldEqual, "1")
				So(r.Count(), ShouldEqual, 1)
			})

			Convey("And requesting the same identity again returns the existing alias", func() {
				again, err := r.Get(ctx, model.SourceDescriptor{Reference: "Asiago Supernova Catalogue"})
				So(err, ShouldBeNil)
				So(again, ShouldEqual, "1")
				So(r.Count(), ShouldEqual, 1)
			})
		})

		Convey("When requesting a citation by bibcode only", func() {
			alias, err := r.Get(ctx, model.SourceDescriptor{Bibcode: "2014MNRAS.442..844F"})

			Convey("Then the bibcode becomes the reference name and ADS URL", func() {
				So(err, ShouldBeNil)
				So(alias, ShouldEqual, "1")
				c, ok := r.Lookup("1")
				So(ok, ShouldBeTrue)
				So(c.Name, ShouldEqual, "2014MNRAS.442..844F")
				So(c.Bibcode, ShouldEqual, "2014MNRAS.442..844F")
				So(c.URL, ShouldEqual, "http://adsabs.harvard.edu/abs/2014MNRAS.442..844F")
			})

			Convey("And a descriptor naming the same bibcode dedupes onto it", func() {
				again, err := r.Get(ctx, model.SourceDescriptor{
					Reference: "Faran et al. 2014",
					Bibcode:   "2014MNRAS.442..844F",
				})
				So(err, ShouldBeNil)
				So(again, ShouldEqual, "1")
				So(r.Count(), ShouldEqual, 1)
			})
		})

		Convey("When requesting distinct identities", func() {
			a1, err := r.Get(ctx, model.SourceDescriptor{Reference: "SDSS Supernova Survey"})
			So(err, ShouldBeNil)
			a2, err := r.Get(ctx, model.SourceDescriptor{Bibcode: "2012ApJS..200...12H"})
			So(err, ShouldBeNil)

			Convey("Then aliases increase monotonically", func() {
				So(a1, ShouldEqual, "1")
				So(a2, ShouldEqual, "2")
				So(r.Count(), ShouldEqual, 2)
			})
		})

		Convey("When the descriptor has no identity", func() {
			_, err := r.Get(ctx, model.SourceDescriptor{URL: "http://example.com"})

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, sources.ErrNoIdentity)
			})
		})
	})
}

func TestRestore(t *testing.T) {
	Convey("Given persisted citations", t, func() {
		persisted := []model.Citation{
			{Name: "Latest Supernovae", URL: "http://www.rochesterastronomy.org", Alias: "1", Secondary: true},
			{Name: "2012A&A...538A.120L", Bibcode: "2012A&A...538A.120L", Alias: "2"},
		}

		Convey("When restoring a registry", func() {
			r := sources.Restore(persisted)

			Convey("Then aliases are kept verbatim and dedup still works", func() {
				So(r.Count(), ShouldEqual, 2)
				alias, err := r.Get(context.Background(), model.SourceDescriptor{Bibcode: "2012A&A...538A.120L"})
				So(err, ShouldBeNil)
				So(alias, ShouldEqual, "2")

				alias, err = r.Get(context.Background(), model.SourceDescriptor{Reference: "OGLE-IV Transient Detection System"})
				So(err, ShouldBeNil)
				So(alias, ShouldEqual, "3")
			})
		})
	})
}
