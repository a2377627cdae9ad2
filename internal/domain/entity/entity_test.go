package entity_test

import (
	"context"
	"strconv"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/novacat/internal/domain/entity"
	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/types"
)

func TestAliases(t *testing.T) {
	Convey("Given a new entity", t, func() {
		e := entity.New("SN2011fe")

		Convey("Then its own name is the first alias", func() {
			So(e.Aliases(), ShouldResemble, []string{"SN2011fe"})
		})

		Convey("When aliases are added", func() {
			So(e.AddAlias("PTF11kly"), ShouldBeTrue)
			So(e.AddAlias("PTF11kly"), ShouldBeFalse)
			So(e.AddAlias(" "), ShouldBeFalse)

			Convey("Then duplicates and blanks are ignored", func() {
				So(e.Aliases(), ShouldResemble, []string{"SN2011fe", "PTF11kly"})
				So(e.HasAlias("PTF11kly"), ShouldBeTrue)
				So(e.HasAlias("PTF11xyz"), ShouldBeFalse)
			})
		})
	})
}

func TestDerivedKinematics(t *testing.T) {
	Convey("Given an entity with a redshift but no velocity", t, func() {
		ctx := context.Background()
		e := entity.New("SN2011fe")
		alias, err := e.Sources.Get(ctx, model.SourceDescriptor{Reference: "Smith 2012"})
		So(err, ShouldBeNil)
		_, err = e.Quantities.Add(ctx, types.KindRedshift, "0.045", "0.001", alias)
		So(err, ShouldBeNil)

		Convey("When the entity is finalized", func() {
			So(e.Finalize(ctx), ShouldBeNil)

			Convey("Then a velocity is derived via the Doppler relation", func() {
				best, ok := e.Quantities.Best(types.KindVelocity)
				So(ok, ShouldBeTrue)
				v, err := strconv.ParseFloat(best.Value, 64)
				So(err, ShouldBeNil)
				So(v, ShouldAlmostEqual, 13188, 500)
			})

			Convey("Then the derived value cites a secondary source", func() {
				best, _ := e.Quantities.Best(types.KindVelocity)
				c, ok := e.Sources.Lookup(best.Source)
				So(ok, ShouldBeTrue)
				So(c.Secondary, ShouldBeTrue)
			})

			Convey("Then a luminosity distance is derived too", func() {
				best, ok := e.Quantities.Best(types.KindLumDist)
				So(ok, ShouldBeTrue)
				d, err := strconv.ParseFloat(best.Value, 64)
				So(err, ShouldBeNil)
				So(d, ShouldAlmostEqual, 206, 10)
			})
		})
	})

	Convey("Given an entity with a velocity but no redshift", t, func() {
		ctx := context.Background()
		e := entity.New("SN2011fe")
		alias, err := e.Sources.Get(ctx, model.SourceDescriptor{Reference: "Smith 2012"})
		So(err, ShouldBeNil)
		_, err = e.Quantities.Add(ctx, types.KindVelocity, "5042.1", "", alias)
		So(err, ShouldBeNil)

		Convey("When the entity is finalized", func() {
			So(e.Finalize(ctx), ShouldBeNil)

			Convey("Then a redshift is derived", func() {
				best, ok := e.Quantities.Best(types.KindRedshift)
				So(ok, ShouldBeTrue)
				z, err := strconv.ParseFloat(best.Value, 64)
				So(err, ShouldBeNil)
				So(z, ShouldAlmostEqual, 0.0168, 0.002)
			})
		})
	})

	Convey("Given an entity that already has both kinds", t, func() {
		ctx := context.Background()
		e := entity.New("SN2011fe")
		alias, err := e.Sources.Get(ctx, model.SourceDescriptor{Reference: "Smith 2012"})
		So(err, ShouldBeNil)
		_, err = e.Quantities.Add(ctx, types.KindRedshift, "0.045", "", alias)
		So(err, ShouldBeNil)
		_, err = e.Quantities.Add(ctx, types.KindVelocity, "9999", "", alias)
		So(err, ShouldBeNil)

		Convey("When the entity is finalized", func() {
			So(e.Finalize(ctx), ShouldBeNil)

			Convey("Then the imported velocity is left alone", func() {
				recs := e.Quantities.Get(types.KindVelocity)
				So(recs, ShouldHaveLength, 1)
				So(recs[0].Value, ShouldEqual, "9999")
				So(recs[0].Source, ShouldEqual, alias)
			})
		})
	})
}

func TestDerivedMeta(t *testing.T) {
	Convey("Given an entity with photometry and a redshift", t, func() {
		ctx := context.Background()
		e := entity.New("SN2014x")
		alias, err := e.Sources.Get(ctx, model.SourceDescriptor{Reference: "Jones 2015"})
		So(err, ShouldBeNil)
		_, err = e.Quantities.Add(ctx, types.KindRedshift, "0.045", "", alias)
		So(err, ShouldBeNil)

		points := []model.PhotometryPoint{
			{Time: "57000", Band: "B", Magnitude: "18.2", Source: alias},
			{Time: "57005", Band: "B", Magnitude: "17.1", Source: alias},
			{Time: "57010", Band: "B", Magnitude: "17.9", Source: alias},
		}
		for _, p := range points {
			_, err := e.Measurements.AddPhotometry(ctx, p)
			So(err, ShouldBeNil)
		}

		Convey("When the entity is finalized", func() {
			So(e.Finalize(ctx), ShouldBeNil)

			Convey("Then the peak apparent magnitude comes from the brightest point", func() {
				So(e.Meta.MaxAppMag, ShouldEqual, "17.1")
			})

			Convey("Then the absolute magnitude follows from the distance", func() {
				m, err := strconv.ParseFloat(e.Meta.MaxAbsMag, 64)
				So(err, ShouldBeNil)
				So(m, ShouldAlmostEqual, -19.5, 1)
			})

			Convey("Then the discovery date comes from the earliest point", func() {
				So(e.Meta.DiscoverYear, ShouldEqual, "2014")
				So(e.Meta.DiscoverMonth, ShouldEqual, "12")
				So(e.Meta.DiscoverDay, ShouldEqual, "9")
			})

			Convey("Then the maximum date comes from the brightest point", func() {
				So(e.Meta.MaxYear, ShouldEqual, "2014")
				So(e.Meta.MaxMonth, ShouldEqual, "12")
				So(e.Meta.MaxDay, ShouldEqual, "14")
			})
		})

		Convey("When the discovery date was imported", func() {
			e.Meta.DiscoverYear = "2013"
			So(e.Finalize(ctx), ShouldBeNil)

			Convey("Then it is not overwritten", func() {
				So(e.Meta.DiscoverYear, ShouldEqual, "2013")
			})
		})
	})
}

func TestStubs(t *testing.T) {
	Convey("Given a full entity", t, func() {
		ctx := context.Background()
		e := entity.New("SN2014x")
		alias, err := e.Sources.Get(ctx, model.SourceDescriptor{Reference: "Jones 2015"})
		So(err, ShouldBeNil)
		_, err = e.Quantities.Add(ctx, types.KindRedshift, "0.02", "", alias)
		So(err, ShouldBeNil)
		e.AddAlias("PSN J0001")

		Convey("When it is reduced to a stub", func() {
			e.ToStub()

			Convey("Then only the name and aliases survive", func() {
				So(e.IsStub(), ShouldBeTrue)
				So(e.Aliases(), ShouldResemble, []string{"SN2014x", "PSN J0001"})
				So(e.Quantities.Len(), ShouldEqual, 0)
				So(e.Sources.Count(), ShouldEqual, 0)
			})
		})
	})
}

func TestRestore(t *testing.T) {
	Convey("Given persisted entity parts", t, func() {
		citations := []model.Citation{{Name: "Jones 2015", Alias: "1"}}
		quantities := map[types.QuantityKind][]model.QuantityRecord{
			types.KindRedshift: {{Value: "0.02", Source: "1"}},
		}
		meta := model.Meta{DiscoverYear: "2014"}

		Convey("When an entity is restored from them", func() {
			e := entity.Restore("SN2014x", []string{"SN2014x", "PSN J0001"},
				citations, quantities, nil, nil, nil, meta)

			Convey("Then aliases, citations and records are kept verbatim", func() {
				So(e.IsStub(), ShouldBeFalse)
				So(e.Aliases(), ShouldResemble, []string{"SN2014x", "PSN J0001"})
				So(e.Sources.Count(), ShouldEqual, 1)
				So(e.Quantities.Get(types.KindRedshift)[0].Value, ShouldEqual, "0.02")
				So(e.Meta.DiscoverYear, ShouldEqual, "2014")
			})
		})
	})
}
