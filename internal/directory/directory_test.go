package directory_test

import (
	"context"
	"errors"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/novacat/internal/adapters/repository"
	"github.com/okian/novacat/internal/directory"
	"github.com/okian/novacat/internal/domain/entity"
	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/domain/types"
	"github.com/okian/novacat/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestCleanName(t *testing.T) {
	Convey("Given raw incoming names", t, func() {
		cases := map[string]string{
			"sn2011fe":  "SN2011fe",
			"SN2011FE":  "SN2011fe",
			"SN 1987a":  "SN1987A",
			"at2017gfo": "AT2017gfo",
			"PTF11kly":  "PTF11kly",
			" PSN  J0001 ": "PSN J0001",
		}

		Convey("Then each canonicalizes as expected", func() {
			for in, want := range cases {
				So(directory.CleanName(in), ShouldEqual, want)
			}
		})
	})
}

func TestResolveOrCreate(t *testing.T) {
	Convey("Given an empty directory", t, func() {
		ctx := context.Background()
		d := directory.New()

		Convey("When a name is resolved twice", func() {
			a, err := d.ResolveOrCreate(ctx, "SN1987A")
			So(err, ShouldBeNil)
			b, err := d.ResolveOrCreate(ctx, "sn1987a")
			So(err, ShouldBeNil)

			Convey("Then both resolve to the same entity", func() {
				So(a == b, ShouldBeTrue)
				full, stub := d.Counts()
				So(full, ShouldEqual, 1)
				So(stub, ShouldEqual, 0)
			})
		})

		Convey("When a bare designation follows the designated name", func() {
			a, err := d.ResolveOrCreate(ctx, "SN1987A")
			So(err, ShouldBeNil)
			b, err := d.ResolveOrCreate(ctx, "1987A")
			So(err, ShouldBeNil)

			Convey("Then it resolves to the existing entity and becomes an alias", func() {
				So(a == b, ShouldBeTrue)
				So(a.HasAlias("1987A"), ShouldBeTrue)
			})
		})

		Convey("When the name is empty", func() {
			_, err := d.ResolveOrCreate(ctx, "  ")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMerge(t *testing.T) {
	Convey("Given a designated entity and a survey-named duplicate", t, func() {
		ctx := context.Background()
		d := directory.New()

		a, err := d.ResolveOrCreate(ctx, "SN2011fe")
		So(err, ShouldBeNil)
		aliasA, err := a.Sources.Get(ctx, model.SourceDescriptor{Reference: "Smith 2012"})
		So(err, ShouldBeNil)
		_, err = a.Quantities.Add(ctx, types.KindRedshift, "0.0008", "", aliasA)
		So(err, ShouldBeNil)

		b, err := d.ResolveOrCreate(ctx, "PTF11kly")
		So(err, ShouldBeNil)
		aliasB, err := b.Sources.Get(ctx, model.SourceDescriptor{Reference: "Jones 2011"})
		So(err, ShouldBeNil)
		_, err = b.Quantities.Add(ctx, types.KindHost, "M 101", "", aliasB)
		So(err, ShouldBeNil)
		b.Meta.Discoverer = "PTF"

		Convey("When they merge", func() {
			winner, err := d.Merge(ctx, "PTF11kly", "SN2011fe")
			So(err, ShouldBeNil)

			Convey("Then the designated entity absorbs the other", func() {
				So(winner, ShouldEqual, "SN2011fe")
				_, stillThere := d.Get("PTF11kly")
				So(stillThere, ShouldBeTrue) // resolves to the winner now
				e, _ := d.Get("PTF11kly")
				So(e == a, ShouldBeTrue)
				So(a.HasAlias("PTF11kly"), ShouldBeTrue)
			})

			Convey("Then copied records cite renumbered citations", func() {
				hosts := a.Quantities.Get(types.KindHost)
				So(hosts, ShouldHaveLength, 1)
				So(hosts[0].Source, ShouldEqual, "2")
				c, ok := a.Sources.Lookup("2")
				So(ok, ShouldBeTrue)
				So(c.Name, ShouldEqual, "Jones 2011")
			})

			Convey("Then empty metadata fills from the absorbed entity", func() {
				So(a.Meta.Discoverer, ShouldEqual, "PTF")
			})

			Convey("Then merging the pair again is a no-op", func() {
				again, err := d.Merge(ctx, "SN2011fe", "PTF11kly")
				So(err, ShouldBeNil)
				So(again, ShouldEqual, "SN2011fe")
				So(a.Quantities.Get(types.KindHost), ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given two undesignated entities", t, func() {
		ctx := context.Background()
		d := directory.New()
		_, err := d.ResolveOrCreate(ctx, "PTF11aaa")
		So(err, ShouldBeNil)
		_, err = d.ResolveOrCreate(ctx, "PS1-11bbb")
		So(err, ShouldBeNil)

		Convey("When they merge on a score tie", func() {
			winner, err := d.Merge(ctx, "PTF11aaa", "PS1-11bbb")
			So(err, ShouldBeNil)

			Convey("Then the second one named survives", func() {
				So(winner, ShouldEqual, "PS1-11bbb")
			})
		})
	})

	Convey("Given an entity with a record citing a missing alias", t, func() {
		ctx := context.Background()
		d := directory.New()
		a, err := d.ResolveOrCreate(ctx, "SN2011fe")
		So(err, ShouldBeNil)
		_, err = a.Quantities.Add(ctx, types.KindRedshift, "0.0008", "", "5")
		So(err, ShouldBeNil)
		_, err = d.ResolveOrCreate(ctx, "PTF11kly")
		So(err, ShouldBeNil)

		Convey("When a merge tries to move that record", func() {
			_, err := d.Merge(ctx, "SN2011fe", "PTF11kly")

			Convey("Then it fails with an integrity error", func() {
				So(errors.Is(err, directory.ErrSourcelessRecord), ShouldBeTrue)
			})
		})
	})
}

func TestMergeMaterializesStubs(t *testing.T) {
	Convey("Given a checkpointed entity seeded as a stub", t, func() {
		ctx := context.Background()
		store, err := repository.NewDiskStore(t.TempDir())
		So(err, ShouldBeNil)

		full := entity.New("SN2014x")
		alias, err := full.Sources.Get(ctx, model.SourceDescriptor{Reference: "Jones 2015"})
		So(err, ShouldBeNil)
		_, err = full.Quantities.Add(ctx, types.KindRedshift, "0.02", "", alias)
		So(err, ShouldBeNil)
		So(store.Save(ctx, full), ShouldBeNil)

		d := directory.New(directory.WithStore(store))
		d.SeedStubs([]*entity.Entity{entity.NewStub("SN2014x", full.Aliases())})

		other, err := d.ResolveOrCreate(ctx, "PSN J0001")
		So(err, ShouldBeNil)
		aliasO, err := other.Sources.Get(ctx, model.SourceDescriptor{Reference: "CBAT"})
		So(err, ShouldBeNil)
		_, err = other.Quantities.Add(ctx, types.KindHost, "NGC 1", "", aliasO)
		So(err, ShouldBeNil)

		Convey("When the stub is merged with a live entity", func() {
			winner, err := d.Merge(ctx, "SN2014x", "PSN J0001")
			So(err, ShouldBeNil)

			Convey("Then the stub was materialized from disk first", func() {
				So(winner, ShouldEqual, "SN2014x")
				e, ok := d.Get("SN2014x")
				So(ok, ShouldBeTrue)
				So(e.IsStub(), ShouldBeFalse)
				So(e.Quantities.Has(types.KindRedshift), ShouldBeTrue)
				So(e.Quantities.Has(types.KindHost), ShouldBeTrue)
			})
		})

		Convey("When a stub has no document behind it", func() {
			d.SeedStubs([]*entity.Entity{entity.NewStub("SN1999zz", nil)})
			_, err := d.Merge(ctx, "SN1999zz", "PSN J0001")

			Convey("Then the merge aborts", func() {
				So(errors.Is(err, directory.ErrStubLoad), ShouldBeTrue)
			})
		})
	})
}

func TestDeduplicateAll(t *testing.T) {
	Convey("Given entities that share aliases", t, func() {
		ctx := context.Background()
		d := directory.New()

		x, err := d.ResolveOrCreate(ctx, "SN2011fe")
		So(err, ShouldBeNil)

		y, err := d.ResolveOrCreate(ctx, "iPTF11kly")
		So(err, ShouldBeNil)
		d.AddAlias(y, "PTF11kly")

		z, err := d.ResolveOrCreate(ctx, "PTF11klyCandidate")
		So(err, ShouldBeNil)
		d.AddAlias(z, "PTF11kly")
		d.AddAlias(x, "PTF11kly")

		_, err = d.ResolveOrCreate(ctx, "SN1999aa")
		So(err, ShouldBeNil)

		Convey("When the catalog is deduplicated", func() {
			merges, err := d.DeduplicateAll(ctx)
			So(err, ShouldBeNil)

			Convey("Then the overlapping entities collapse into one", func() {
				So(merges, ShouldEqual, 2)
				full, _ := d.Counts()
				So(full, ShouldEqual, 2)
				e, ok := d.Get("PTF11kly")
				So(ok, ShouldBeTrue)
				So(e.HasAlias("SN2011fe"), ShouldBeTrue)
				So(e.HasAlias("iPTF11kly"), ShouldBeTrue)
				So(e.HasAlias("PTF11klyCandidate"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a designated entity and its bare designation twin", t, func() {
		ctx := context.Background()
		d := directory.New()
		_, err := d.ResolveOrCreate(ctx, "SN1987A")
		So(err, ShouldBeNil)

		b, err := d.ResolveOrCreate(ctx, "OGLE-1987-X")
		So(err, ShouldBeNil)
		d.AddAlias(b, "1987A")

		Convey("When the catalog is deduplicated", func() {
			merges, err := d.DeduplicateAll(ctx)
			So(err, ShouldBeNil)

			Convey("Then the SN-prefixed form matches the bare alias", func() {
				So(merges, ShouldEqual, 1)
				e, ok := d.Get("SN1987A")
				So(ok, ShouldBeTrue)
				So(e.HasAlias("OGLE-1987-X"), ShouldBeTrue)
			})
		})
	})
}
