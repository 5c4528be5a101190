package core

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// Key identifies a method of a subject type for observer routing.
type Key struct {
	Subject string
	Method  string
}

func (k Key) String() string {
	return k.Subject + "#" + k.Method
}

// KeyFor builds the key for method on the subject type T. Pointer types are keyed by
// their element so that KeyFor[*MobUtils] and KeyFor[MobUtils] agree.
func KeyFor[T any](method string) Key {
	typ := reflect.TypeFor[T]()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	return Key{Subject: subjectOf(typ), Method: method}
}

// subjectOf names a type by its full package path, so that equally named packages in
// different modules never share keys. Unnamed types fall back to their literal form.
func subjectOf(typ reflect.Type) string {
	if typ.Name() == "" || typ.PkgPath() == "" {
		return typ.String()
	}

	return typ.PkgPath() + "." + typ.Name()
}

// Observer is notified with the arguments of an intercepted call.
type Observer func(args ...any)

// CollisionPolicy decides what Register does when a key already has an observer.
type CollisionPolicy int

const (
	// KeepFirst keeps the existing observer and reports ErrObserverCollision.
	KeepFirst CollisionPolicy = iota
	// ReplaceExisting installs the new observer over the existing one.
	ReplaceExisting
)

func (p CollisionPolicy) String() string {
	switch p {
	case KeepFirst:
		return "keep-first"
	case ReplaceExisting:
		return "replace-existing"
	default:
		return fmt.Sprintf("CollisionPolicy(%d)", int(p))
	}
}

// Router maps keys to observers. A Router belongs to one test; nothing about it is global.
type Router struct {
	mu        sync.Mutex
	observers map[Key]Observer
	policy    CollisionPolicy
	log       logrus.FieldLogger
}

// NewRouter creates an empty router.
func NewRouter(policy CollisionPolicy, log logrus.FieldLogger) *Router {
	return &Router{
		observers: make(map[Key]Observer),
		policy:    policy,
		log:       log,
	}
}

// Register installs observer under key.
func (r *Router) Register(key Key, observer Observer) error {
	if observer == nil {
		return fmt.Errorf("%w for %v", ErrNilObserver, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.observers[key]; exists {
		entry := r.log.WithFields(logrus.Fields{"key": key.String(), "policy": r.policy.String()})

		if r.policy == ReplaceExisting {
			entry.Warn("replacing observer")

			r.observers[key] = observer

			return nil
		}

		entry.Warn("observer already registered, keeping the first")

		return fmt.Errorf("%w for %v", ErrObserverCollision, key)
	}

	r.observers[key] = observer

	return nil
}

// adopt copies the observers of old that r does not have yet.
func (r *Router) adopt(old *Router) {
	if old == nil || old == r {
		return
	}

	old.mu.Lock()
	inherited := make(map[Key]Observer, len(old.observers))
	for key, observer := range old.observers {
		inherited[key] = observer
	}
	old.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	for key, observer := range inherited {
		if _, exists := r.observers[key]; !exists {
			r.observers[key] = observer
		}
	}
}

// Observed reports whether key has an observer.
func (r *Router) Observed(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.observers[key]

	return ok
}

// Notify calls the observer for key, if any, on the calling goroutine.
func (r *Router) Notify(key Key, args ...any) {
	r.mu.Lock()
	observer, ok := r.observers[key]
	r.mu.Unlock()

	if !ok {
		return
	}

	r.log.WithFields(logrus.Fields{"key": key.String(), "args": args}).Debug("notifying observer")
	observer(args...)
}
