package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"screening-sync/internal/infrastructure/screening"
)

// SendChat forwards a message to the hiring assistant. Only one message is
// in flight per session; CancelChat aborts it.
func (w *Workspace) SendChat(ctx context.Context, message, conversationID string) (screening.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return screening.ChatResponse{}, fmt.Errorf("%w: message is required", ErrValidation)
	}
	remote, token, ok := w.remoteCall()
	if !ok {
		return screening.ChatResponse{}, ErrLocalOnly
	}

	ctx, cancel := context.WithCancel(ctx)
	w.chatMu.Lock()
	if w.chatCancel != nil {
		w.chatCancel()
	}
	w.chatCancel = cancel
	w.chatSeq++
	seq := w.chatSeq
	w.chatMu.Unlock()

	end := w.activity.Begin(ActivityChatting)
	defer func() {
		end()
		cancel()
		w.chatMu.Lock()
		if w.chatSeq == seq {
			w.chatCancel = nil
		}
		w.chatMu.Unlock()
	}()

	resp, err := remote.SendChatMessage(ctx, token, screening.ChatRequest{Message: message, ConversationID: conversationID})
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return screening.ChatResponse{}, ErrCancelled
		}
		return screening.ChatResponse{}, w.remoteErr("chat", err)
	}
	return resp, nil
}

// CancelChat aborts the in-flight chat message. It reports whether one was
// running.
func (w *Workspace) CancelChat() bool {
	w.chatMu.Lock()
	defer w.chatMu.Unlock()
	if w.chatCancel == nil {
		return false
	}
	w.chatCancel()
	w.chatCancel = nil
	return true
}
