// SPDX-License-Identifier: GPL-3.0-or-later
package mailservice

import (
	"context"
	"testing"

	"github.com/CrawX/go-mailbridge/domain"

	"github.com/emersion/go-imap"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAction_Flags(t *testing.T) {
	tests := []struct {
		action domain.Action
		add    bool
	}{
		{domain.ActionMarkRead, true},
		{domain.ActionMarkUnread, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.action), func(t *testing.T) {
			ts := setup(t)
			defer ts.ctrl.Finish()

			ts.expectCredentials()
			ts.expectSession()
			ts.session.EXPECT().Select("INBOX").Return(nil)
			ts.session.EXPECT().SetFlags([]uint32{5, 7}, []string{imap.SeenFlag}, tc.add).Return(nil)

			err := ts.service.ApplyAction(context.Background(), testUser, &domain.ActionRequest{
				Action:   tc.action,
				EmailIDs: []string{"5", "7", "5"},
			})
			assert.NoError(t, err)
		})
	}
}

func TestApplyAction_Delete(t *testing.T) {
	ts := setup(t)
	defer ts.ctrl.Finish()

	ts.expectCredentials()
	ts.expectSession()
	gomock.InOrder(
		ts.session.EXPECT().Select("Trash").Return(rejected("Trash")),
		ts.session.EXPECT().Select("INBOX.Trash").Return(nil),
	)
	ts.session.EXPECT().Delete([]uint32{9}).Return(nil)

	err := ts.service.ApplyAction(context.Background(), testUser, &domain.ActionRequest{
		Action:   domain.ActionDelete,
		EmailIDs: []string{"9"},
		Mailbox:  "Trash",
	})
	assert.NoError(t, err)
}

func TestApplyAction_Move(t *testing.T) {
	ts := setup(t)
	defer ts.ctrl.Finish()

	ts.expectCredentials()
	ts.expectSession()
	gomock.InOrder(
		ts.session.EXPECT().Select("Archive").Return(nil),
		ts.session.EXPECT().Select("INBOX").Return(nil),
		ts.session.EXPECT().Move([]uint32{3}, "Archive").Return(nil),
	)

	err := ts.service.ApplyAction(context.Background(), testUser, &domain.ActionRequest{
		Action:   domain.ActionMove,
		EmailIDs: []string{"3"},
		Target:   "Archive",
	})
	assert.NoError(t, err)
}

func TestApplyAction_StoreRejected(t *testing.T) {
	ts := setup(t)
	defer ts.ctrl.Finish()

	ts.expectCredentials()
	ts.expectSession()
	ts.session.EXPECT().Select("INBOX").Return(nil)
	ts.session.EXPECT().SetFlags(gomock.Any(), gomock.Any(), true).
		Return(domain.NewError(domain.OperationError, nil, "could not store flags: NO read-only"))

	err := ts.service.ApplyAction(context.Background(), testUser, &domain.ActionRequest{
		Action:   domain.ActionMarkRead,
		EmailIDs: []string{"1"},
	})
	require.Error(t, err)
	assert.Equal(t, domain.OperationError, domain.KindOf(err))
}

func TestApplyAction_InvalidRequests(t *testing.T) {
	tests := []struct {
		name    string
		request *domain.ActionRequest
		message string
	}{
		{"nil", nil, `unknown action ""`},
		{"unknown action", &domain.ActionRequest{Action: "archive", EmailIDs: []string{"1"}}, `unknown action "archive"`},
		{"no ids", &domain.ActionRequest{Action: domain.ActionDelete}, "no email ids given"},
		{"bad id", &domain.ActionRequest{Action: domain.ActionDelete, EmailIDs: []string{"1", "abc"}}, `invalid email id "abc"`},
		{"zero id", &domain.ActionRequest{Action: domain.ActionDelete, EmailIDs: []string{"0"}}, `invalid email id "0"`},
		{"move without target", &domain.ActionRequest{Action: domain.ActionMove, EmailIDs: []string{"1"}}, "move needs a target mailbox"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := setup(t)
			defer ts.ctrl.Finish()

			err := ts.service.ApplyAction(context.Background(), testUser, tc.request)
			require.Error(t, err)
			assert.Equal(t, domain.OperationError, domain.KindOf(err))
			assert.EqualError(t, err, tc.message)
		})
	}
}

func Test_partitionUids(t *testing.T) {
	tests := []struct {
		name     string
		input    []uint32
		expected [][]uint32
	}{
		{"singlepartition", []uint32{1}, [][]uint32{{1}}},
		{"multiple", []uint32{1, 2, 3, 4, 5}, [][]uint32{{1, 2}, {3, 4}, {5}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uids := partitionUids(tc.input, 2)
			assert.Equal(t, tc.expected, uids)
		})
	}
}
