package testrecords_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/testrecords"
)

func TestGenerate(t *testing.T) {
	Convey("Given a generator with a fixed seed", t, func() {
		cfg := testrecords.DefaultConfig()
		cfg.Entities = 20
		g := testrecords.NewGenerator(cfg)

		Convey("When a batch is generated", func() {
			recs := g.Generate()

			Convey("Then every record is well-formed", func() {
				So(len(recs), ShouldBeGreaterThan, cfg.Entities*3)
				for _, r := range recs {
					So(r.EntityName, ShouldNotBeBlank)
					switch r.Kind {
					case model.RecordQuantity:
						So(r.Quantity, ShouldNotBeNil)
						So(r.Sources, ShouldNotBeEmpty)
					case model.RecordPhotometry:
						So(r.Photometry, ShouldNotBeNil)
						So(r.Sources, ShouldNotBeEmpty)
					case model.RecordAlias:
						So(r.Alias, ShouldNotBeBlank)
					default:
						So(string(r.Kind), ShouldBeIn, []string{"quantity", "photometry", "alias"})
					}
				}
			})

			Convey("Then some survey twins carry alias links", func() {
				aliases := 0
				for _, r := range recs {
					if r.Kind == model.RecordAlias {
						aliases++
					}
				}
				So(aliases, ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestFeed(t *testing.T) {
	Convey("Given a batch and a collecting submit function", t, func() {
		ctx := context.Background()
		g := testrecords.NewGenerator(testrecords.Config{Entities: 5, Seed: 7})
		recs := g.Generate()

		var got []model.RawRecord
		submit := func(_ context.Context, rec model.RawRecord) error {
			got = append(got, rec)
			return nil
		}

		Convey("When the batch is fed", func() {
			sent, err := testrecords.Feed(ctx, recs, submit)

			Convey("Then every record is delivered in order", func() {
				So(err, ShouldBeNil)
				So(sent, ShouldEqual, len(recs))
				So(got, ShouldHaveLength, len(recs))
			})
		})
	})
}
