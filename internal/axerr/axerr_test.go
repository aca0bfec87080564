package axerr

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKindOf(t *testing.T) {
	Convey("Given an axerr-tagged error", t, func() {
		Convey("New reports its own kind", func() {
			err := New(KindNotFound, "no such entity")
			kind, ok := KindOf(err)
			So(ok, ShouldBeTrue)
			So(kind, ShouldEqual, KindNotFound)
		})

		Convey("Wrap reports its own kind and keeps the wrapped message", func() {
			cause := pkgerrors.New("boom")
			err := Wrap(KindTransient, cause, "queue full")
			kind, ok := KindOf(err)
			So(ok, ShouldBeTrue)
			So(kind, ShouldEqual, KindTransient)
			So(err.Error(), ShouldContainSubstring, "boom")
			So(err.Error(), ShouldContainSubstring, "queue full")
		})

		Convey("Wrap(nil) returns nil", func() {
			So(Wrap(KindValidation, nil, "unused"), ShouldBeNil)
		})

		Convey("an error further wrapped by pkg/errors.Wrap is still found via Cause", func() {
			inner := New(KindConflict, "already running")
			outer := pkgerrors.Wrap(inner, "simdriver")
			kind, ok := KindOf(outer)
			So(ok, ShouldBeTrue)
			So(kind, ShouldEqual, KindConflict)
		})

		Convey("a plain error has no kind", func() {
			_, ok := KindOf(pkgerrors.New("unrelated"))
			So(ok, ShouldBeFalse)
		})

		Convey("a nil error has no kind", func() {
			_, ok := KindOf(nil)
			So(ok, ShouldBeFalse)
		})
	})
}
