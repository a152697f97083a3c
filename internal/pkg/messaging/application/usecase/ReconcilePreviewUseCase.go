package usecase

import (
	"context"
	"fmt"

	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"
)

// ReconcilePreviewUseCase runs once per stored message and keeps the derived
// contact and chat-preview rows of both participants in step with the message
// log. It is invoked from a detached task; its error never reaches the sender.
type ReconcilePreviewUseCase struct {
	Contacts  repository.ContactRepository
	Directory repository.UserDirectory
}

func NewReconcilePreviewUseCase(contacts repository.ContactRepository, directory repository.UserDirectory) *ReconcilePreviewUseCase {
	return &ReconcilePreviewUseCase{Contacts: contacts, Directory: directory}
}

// Execute updates both directions independently:
// the sender's preview stays keyed by the message's contact id, the
// receiver's by the receiver's own contact row.
func (uc *ReconcilePreviewUseCase) Execute(ctx context.Context, m messaging.Message) error {
	sender, err := uc.Directory.GetProfile(ctx, m.SenderID)
	if err != nil {
		return fmt.Errorf("reconcile: sender profile: %w", err)
	}
	receiver, err := uc.Directory.GetProfile(ctx, m.ReceiverID)
	if err != nil {
		return fmt.Errorf("reconcile: receiver profile: %w", err)
	}

	if _, err := uc.Contacts.EnsureContact(ctx, m.SenderID, m.ReceiverID, receiver.Username); err != nil {
		return fmt.Errorf("reconcile: sender contact: %w", err)
	}
	receiverContactID, err := uc.Contacts.EnsureContact(ctx, m.ReceiverID, m.SenderID, sender.Username)
	if err != nil {
		return fmt.Errorf("reconcile: receiver contact: %w", err)
	}

	senderPreview := messaging.ChatPreview{
		ContactID:      m.ContactID,
		ProfilePicture: receiver.ProfilePicture,
		ContactName:    receiver.Username,
		LastText:       m.Text,
		TextTimestamp:  m.Timestamp,
		OwnerID:        m.SenderID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
	}
	if err := uc.Contacts.UpsertPreview(ctx, senderPreview); err != nil {
		return fmt.Errorf("reconcile: sender preview: %w", err)
	}

	receiverPreview := messaging.ChatPreview{
		ContactID:      receiverContactID,
		ProfilePicture: sender.ProfilePicture,
		ContactName:    sender.Username,
		LastText:       m.Text,
		TextTimestamp:  m.Timestamp,
		OwnerID:        m.ReceiverID,
		SenderID:       m.ReceiverID,
		ReceiverID:     m.SenderID,
	}
	if err := uc.Contacts.UpsertPreview(ctx, receiverPreview); err != nil {
		return fmt.Errorf("reconcile: receiver preview: %w", err)
	}

	return nil
}
