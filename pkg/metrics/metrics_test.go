package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/novacat/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsHandler(t *testing.T) {
	Convey("Given the metrics handler", t, func() {
		metrics.RecordIngested()
		metrics.RecordDropped("bad_time")
		metrics.RecordMerge()
		metrics.UpdateQueueCapacity(1000)
		metrics.UpdateEntityCounts(3, 7)

		srv := httptest.NewServer(metrics.Handler())
		defer srv.Close()

		Convey("When scraping it", func() {
			resp, err := http.Get(srv.URL)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)

			Convey("Then the curation metrics are exposed", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				out := string(body)
				So(out, ShouldContainSubstring, "novacat_catalog_records_ingested_total")
				So(out, ShouldContainSubstring, `novacat_catalog_records_dropped_total{reason="bad_time"}`)
				So(out, ShouldContainSubstring, "novacat_catalog_merges_total")
				So(out, ShouldContainSubstring, "novacat_catalog_queue_capacity 1000")
				So(out, ShouldContainSubstring, "novacat_catalog_entities_stub 7")
			})
		})
	})
}

func TestNewManagerOptions(t *testing.T) {
	Convey("Given custom manager options", t, func() {
		Convey("When constructing a manager with its own registry", func() {
			m := metrics.NewManager(
				metrics.WithNamespace("test"),
				metrics.WithSubsystem("curator"),
				metrics.WithHistogramBuckets([]float64{1, 10, 100}),
			)

			Convey("Then construction succeeds without colliding with the global registry", func() {
				So(m, ShouldNotBeNil)
			})
		})
	})
}
