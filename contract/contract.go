//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"babelchat/domain"
	"babelchat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// initialization or lifecycle events, avoiding the need for manual naming in
// the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// ChannelKind distinguishes the two per-user delivery channels. A user holds
// at most one connection per kind at any time.
type ChannelKind string

const (
	ChannelLive   ChannelKind = "live"   // raw-text immediate pushes
	ChannelUnread ChannelKind = "unread" // unread drain + change events
)

// Conn abstracts one websocket connection as seen by the delivery code.
// Implementations must serialize writes: the registry hands the same Conn to
// several goroutines.
//
// ReadFrame blocks until any inbound frame arrives or the timeout elapses.
// The payload is discarded; the unread loop only uses it as a cooperative
// yield. A timeout returns errors.ErrIdleTimeout, anything else means the
// peer is gone.
type Conn interface {
	WriteText(payload []byte) error
	WriteJSON(v any) error
	ReadFrame(timeout time.Duration) error
	Close() error
}

// IRegistry is the connection registry, the only mutable state shared across
// goroutines. All operations are atomic single steps with no suspension
// inside.
type IRegistry interface {
	Register(userID string, kind ChannelKind, conn Conn) error
	Unregister(userID string, kind ChannelKind)
	Lookup(userID string, kind ChannelKind) (Conn, bool)
	IsOnline(userID string) bool
}

// IBroadcaster pushes a change event to every group member present in the
// registry at call time. Offline members are skipped for good: there is no
// durable log behind this.
type IBroadcaster interface {
	BroadcastChange(ctx context.Context, groupID domain.GroupID, change event.Change) error
}

// IDispatcher is the ingestion-side handle on the background pipelines. Both
// calls are non-blocking; a saturated pipeline drops the command.
type IDispatcher interface {
	EnqueueLivePush(cmd domain.LivePushCommand)
	EnqueueTranslate(cmd domain.TranslateCommand)
}

// Translator is the outbound translation backend. Failure is opaque: callers
// treat any error as fatal to the enclosing pipeline run, there is no retry
// contract.
type Translator interface {
	Translate(ctx context.Context, text, fromLang, toLang string, maxTokens int) (string, error)
}
