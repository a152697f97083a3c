package task

import (
	"context"
	"encoding/json"
	"log"

	qport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/queue/port"
	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/usecase"
)

// Dispatcher detaches contact/preview reconciliation from the send path.
// Dispatch must never block and its failure must never reach the caller;
// the already-acknowledged send stands regardless.
type Dispatcher interface {
	Dispatch(ctx context.Context, m messaging.Message)
}

// QueueDispatcher hands the reconcile work to the background queue with
// retries disabled: a failed reconciliation leaves the preview stale until the
// next message in that conversation, it is not retried.
type QueueDispatcher struct {
	Client qport.Client
}

func NewQueueDispatcher(client qport.Client) *QueueDispatcher {
	return &QueueDispatcher{Client: client}
}

var _ Dispatcher = (*QueueDispatcher)(nil)

func (d *QueueDispatcher) Dispatch(ctx context.Context, m messaging.Message) {
	payload := ReconcilePreviewTaskPayload{
		MessageID:   m.ID,
		TempID:      m.TempID,
		ContactID:   m.ContactID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		MessageText: m.Text,
		Timestamp:   m.Timestamp,
		ReadChecker: string(m.ReadState),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("reconcile dispatch: encode payload: %v", err)
		return
	}

	opts := qport.EnqueueOption{Queue: "chat", MaxRetry: -1}
	if _, err := d.Client.Enqueue(ctx, qport.Task{Type: ReconcilePreviewTaskType, Payload: b}, opts); err != nil {
		log.Printf("reconcile dispatch: enqueue: %v", err)
	}
}

// GoDispatcher runs reconciliation on a detached goroutine when no queue is
// configured. Errors drain through a channel into the log sink so a slow log
// writer cannot stall a reconcile goroutine.
type GoDispatcher struct {
	UC   *usecase.ReconcilePreviewUseCase
	errs chan error
}

func NewGoDispatcher(uc *usecase.ReconcilePreviewUseCase) *GoDispatcher {
	d := &GoDispatcher{UC: uc, errs: make(chan error, 16)}
	go func() {
		for err := range d.errs {
			log.Printf("reconcile: %v", err)
		}
	}()
	return d
}

var _ Dispatcher = (*GoDispatcher)(nil)

// Dispatch detaches from the request context on purpose: the send has already
// been acknowledged, so cancellation of the request must not abort the update.
func (d *GoDispatcher) Dispatch(_ context.Context, m messaging.Message) {
	go func() {
		if err := d.UC.Execute(context.Background(), m); err != nil {
			select {
			case d.errs <- err:
			default:
			}
		}
	}()
}
