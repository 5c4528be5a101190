package core_test

import (
	htmltemplate "html/template"
	"testing"
	texttemplate "text/template"

	"github.com/junittest/doubles/internal/core"
	. "github.com/onsi/gomega" //nolint:revive
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type subject struct{}

func TestKeyFor_StripsPointers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.KeyFor[subject]("Add")).To(Equal(core.KeyFor[*subject]("Add")))
	g.Expect(core.KeyFor[**subject]("Add").String()).
		To(Equal("github.com/junittest/doubles/internal/core_test.subject#Add"))
}

func TestKeyFor_SamePackageNameDifferentPath(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	text, html := core.KeyFor[texttemplate.Template]("Execute"), core.KeyFor[htmltemplate.Template]("Execute")

	g.Expect(text).NotTo(Equal(html))
	g.Expect(text.Subject).To(Equal("text/template.Template"))
	g.Expect(html.Subject).To(Equal("html/template.Template"))
	g.Expect(core.KeyFor[func(int) int]("Apply").Subject).To(Equal("func(int) int"))
}

func TestRouter_NotifyCallsObserverWithArgs(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	logger, _ := logtest.NewNullLogger()
	router := core.NewRouter(core.KeepFirst, logger)
	key := core.KeyFor[subject]("Add")

	var got [][]any

	g.Expect(router.Register(key, func(args ...any) { got = append(got, args) })).To(Succeed())
	g.Expect(router.Observed(key)).To(BeTrue())

	router.Notify(key, 1, 1)
	router.Notify(core.KeyFor[subject]("Sub"), 2, 2)

	g.Expect(got).To(Equal([][]any{{1, 1}}))
}

func TestRouter_NotifyWithoutObserverIsNoop(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	logger, hook := logtest.NewNullLogger()
	router := core.NewRouter(core.KeepFirst, logger)

	g.Expect(func() { router.Notify(core.KeyFor[subject]("Add"), 1) }).NotTo(Panic())
	g.Expect(hook.AllEntries()).To(BeEmpty())
}

func TestRouter_RejectsNilObserver(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	logger, _ := logtest.NewNullLogger()
	router := core.NewRouter(core.KeepFirst, logger)
	key := core.KeyFor[subject]("Add")

	g.Expect(router.Register(key, nil)).To(MatchError(core.ErrNilObserver))
	g.Expect(router.Observed(key)).To(BeFalse())
}

func TestRouter_KeepFirstWarnsAndKeepsExisting(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	logger, hook := logtest.NewNullLogger()
	router := core.NewRouter(core.KeepFirst, logger)
	key := core.KeyFor[subject]("Add")

	var winner string

	g.Expect(router.Register(key, func(...any) { winner = "first" })).To(Succeed())
	g.Expect(router.Register(key, func(...any) { winner = "second" })).To(MatchError(core.ErrObserverCollision))

	router.Notify(key)

	g.Expect(winner).To(Equal("first"))
	g.Expect(hook.LastEntry()).NotTo(BeNil())
	g.Expect(hook.LastEntry().Level).To(Equal(logrus.WarnLevel))
	g.Expect(hook.LastEntry().Data).To(HaveKeyWithValue("key", key.String()))
}

func TestRouter_ReplaceExistingInstallsNewest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	logger, hook := logtest.NewNullLogger()
	router := core.NewRouter(core.ReplaceExisting, logger)
	key := core.KeyFor[subject]("Add")

	var winner string

	g.Expect(router.Register(key, func(...any) { winner = "first" })).To(Succeed())
	g.Expect(router.Register(key, func(...any) { winner = "second" })).To(Succeed())

	router.Notify(key)

	g.Expect(winner).To(Equal("second"))
	g.Expect(hook.LastEntry().Message).To(Equal("replacing observer"))
}

func TestRouter_ObserverMayRegisterAnother(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	logger, _ := logtest.NewNullLogger()
	router := core.NewRouter(core.KeepFirst, logger)
	first, second := core.KeyFor[subject]("A"), core.KeyFor[subject]("B")

	fired := false

	g.Expect(router.Register(first, func(...any) {
		_ = router.Register(second, func(...any) { fired = true })
	})).To(Succeed())

	router.Notify(first)
	router.Notify(second)

	g.Expect(fired).To(BeTrue())
}

func TestRouter_ObserverPanicPropagates(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	logger, _ := logtest.NewNullLogger()
	router := core.NewRouter(core.KeepFirst, logger)
	key := core.KeyFor[subject]("Add")

	g.Expect(router.Register(key, func(...any) { panic("observer boom") })).To(Succeed())

	g.Expect(func() { router.Notify(key, 1, 1) }).To(PanicWith("observer boom"))
	// the router lock is not held by the panicking notification
	g.Expect(router.Observed(key)).To(BeTrue())
}

func TestCollisionPolicy_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.KeepFirst.String()).To(Equal("keep-first"))
	g.Expect(core.ReplaceExisting.String()).To(Equal("replace-existing"))
	g.Expect(core.CollisionPolicy(9).String()).To(Equal("CollisionPolicy(9)"))
}
