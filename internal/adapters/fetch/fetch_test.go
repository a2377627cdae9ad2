package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/novacat/internal/adapters/fetch"
	"github.com/okian/novacat/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestGet(t *testing.T) {
	Convey("Given an upstream server and a caching client", t, func() {
		ctx := context.Background()
		var fail atomic.Bool
		var hits atomic.Int32

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if fail.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte("name,redshift\nSN2014x,0.02\n"))
		}))
		defer srv.Close()

		client, err := fetch.New(t.TempDir())
		So(err, ShouldBeNil)

		Convey("When a URL is fetched", func() {
			data, err := client.Get(ctx, srv.URL+"/catalog.csv")
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "SN2014x")

			Convey("And the upstream starts failing", func() {
				fail.Store(true)

				Convey("Then the cached copy is served", func() {
					data, err := client.Get(ctx, srv.URL+"/catalog.csv")
					So(err, ShouldBeNil)
					So(string(data), ShouldContainSubstring, "SN2014x")
				})
			})
		})

		Convey("When the upstream fails and nothing is cached", func() {
			fail.Store(true)
			_, err := client.Get(ctx, srv.URL+"/missing.csv")

			Convey("Then the fetch reports unavailable", func() {
				So(errors.Is(err, fetch.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}

func TestGetChanged(t *testing.T) {
	Convey("Given an upstream whose payload can change", t, func() {
		ctx := context.Background()
		var payload atomic.Value
		payload.Store("v1")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(payload.Load().(string)))
		}))
		defer srv.Close()

		client, err := fetch.New(t.TempDir())
		So(err, ShouldBeNil)

		Convey("When a URL is fetched for the first time", func() {
			data, changed, err := client.GetChanged(ctx, srv.URL)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "v1")
			So(changed, ShouldBeTrue)

			Convey("And again with the same payload", func() {
				_, changed, err := client.GetChanged(ctx, srv.URL)
				So(err, ShouldBeNil)
				So(changed, ShouldBeFalse)
			})

			Convey("And again after the payload moves", func() {
				payload.Store("v2")
				data, changed, err := client.GetChanged(ctx, srv.URL)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "v2")
				So(changed, ShouldBeTrue)
			})
		})
	})
}

func TestOffline(t *testing.T) {
	Convey("Given a warm cache", t, func() {
		ctx := context.Background()
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte("payload"))
		}))
		defer srv.Close()

		dir := t.TempDir()
		warm, err := fetch.New(dir)
		So(err, ShouldBeNil)
		_, err = warm.Get(ctx, srv.URL)
		So(err, ShouldBeNil)
		So(hits.Load(), ShouldEqual, 1)

		Convey("When an offline client reads the same URL", func() {
			offline, err := fetch.New(dir, fetch.WithOffline(true))
			So(err, ShouldBeNil)
			data, err := offline.Get(ctx, srv.URL)

			Convey("Then it serves the cache without touching the network", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "payload")
				So(hits.Load(), ShouldEqual, 1)
			})

			Convey("And an uncached URL is unavailable", func() {
				_, err := offline.Get(ctx, srv.URL+"/other")
				So(errors.Is(err, fetch.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}
