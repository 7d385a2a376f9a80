package models

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func sampleIdentity() Identity {
	return Identity{
		ID:         "9b0c6a52-6f33-4c1b-9d1e-3c0b2a6e1f10",
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Avatar:     Ptr("https://cdn.example.com/ada.png"),
		Roles:      []string{RoleUser, RoleAdmin},
		AuraPoints: 100,
		TrustScore: 5.0,
		CreatedAt:  fixedNow,
	}
}

func TestIdentity_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Identity)
		wantErr error
	}{
		{name: "complete", mutate: func(*Identity) {}},
		{name: "zero points allowed", mutate: func(i *Identity) { i.AuraPoints = 0 }},
		{name: "nil avatar allowed", mutate: func(i *Identity) { i.Avatar = nil }},
		{name: "missing id", mutate: func(i *Identity) { i.ID = "" }, wantErr: ErrIncompleteIdentity},
		{name: "blank name", mutate: func(i *Identity) { i.Name = "  " }, wantErr: ErrIncompleteIdentity},
		{name: "missing email", mutate: func(i *Identity) { i.Email = "" }, wantErr: ErrIncompleteIdentity},
		{name: "no roles", mutate: func(i *Identity) { i.Roles = nil }, wantErr: ErrIncompleteIdentity},
		{name: "empty role", mutate: func(i *Identity) { i.Roles = []string{""} }, wantErr: ErrIncompleteIdentity},
		{name: "zero createdAt", mutate: func(i *Identity) { i.CreatedAt = time.Time{} }, wantErr: ErrIncompleteIdentity},
		{name: "negative points", mutate: func(i *Identity) { i.AuraPoints = -1 }, wantErr: ErrOutOfRange},
		{name: "trust above max", mutate: func(i *Identity) { i.TrustScore = 5.1 }, wantErr: ErrOutOfRange},
		{name: "trust below min", mutate: func(i *Identity) { i.TrustScore = -0.5 }, wantErr: ErrOutOfRange},
		{name: "trust NaN", mutate: func(i *Identity) { i.TrustScore = math.NaN() }, wantErr: ErrOutOfRange},
		{name: "trust +Inf", mutate: func(i *Identity) { i.TrustScore = math.Inf(1) }, wantErr: ErrOutOfRange},
		{name: "trust -Inf", mutate: func(i *Identity) { i.TrustScore = math.Inf(-1) }, wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := sampleIdentity()
			tt.mutate(&id)
			err := id.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIdentity_Clone_DoesNotAlias(t *testing.T) {
	orig := sampleIdentity()
	c := orig.Clone()

	c.Roles[0] = "changed"
	*c.Avatar = "changed"

	assert.Equal(t, RoleUser, orig.Roles[0])
	assert.Equal(t, "https://cdn.example.com/ada.png", *orig.Avatar)
}

func TestIdentity_HasRole(t *testing.T) {
	id := sampleIdentity()
	assert.True(t, id.HasRole(RoleAdmin))
	assert.False(t, id.HasRole("moderator"))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	orig := sampleIdentity()
	raw, err := orig.Encode()
	require.NoError(t, err)

	got, err := DecodeIdentity(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_UsesStoredFieldNames(t *testing.T) {
	raw, err := DemoIdentity(fixedNow).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "1",
		"name": "Deepak Sai",
		"email": "deepak@student.edu",
		"avatar": null,
		"roles": ["user"],
		"auraPoints": 1250,
		"trustScore": 4.8,
		"createdAt": "2026-10-14T09:30:00Z",
		"isVerified": true
	}`, string(raw))
}

func TestDecodeIdentity_AcceptsLegacyDocument(t *testing.T) {
	// isVerified was optional in older builds.
	raw := []byte(`{"id":"1700000000000","name":"Ada","email":"ada@example.com","avatar":null,
		"roles":["user"],"auraPoints":0,"trustScore":5,"createdAt":"2026-01-02T03:04:05.678Z"}`)

	got, err := DecodeIdentity(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.AuraPoints)
	assert.False(t, got.IsVerified)
	assert.Nil(t, got.Avatar)
}

func TestDecodeIdentity_FractionalPointsRounded(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{raw: "1250", want: 1250},
		{raw: "1250.0", want: 1250},
		{raw: "4.5", want: 5},
		{raw: "4.4", want: 4},
		{raw: "1e3", want: 1000},
		{raw: "-0.4", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			raw := []byte(`{"id":"1","name":"A","email":"a@b","roles":["user"],"auraPoints":` + tt.raw +
				`,"trustScore":4,"createdAt":"2026-01-01T00:00:00Z"}`)
			got, err := DecodeIdentity(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.AuraPoints)
		})
	}
}

func TestDecodeIdentity_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "not json", raw: `{not json`},
		{name: "json null", raw: `null`, wantErr: ErrIncompleteIdentity},
		{name: "array", raw: `[1,2,3]`},
		{name: "missing auraPoints", raw: `{"id":"1","name":"A","email":"a@b","roles":["user"],"trustScore":4,"createdAt":"2026-01-01T00:00:00Z"}`, wantErr: ErrIncompleteIdentity},
		{name: "missing trustScore", raw: `{"id":"1","name":"A","email":"a@b","roles":["user"],"auraPoints":4,"createdAt":"2026-01-01T00:00:00Z"}`, wantErr: ErrIncompleteIdentity},
		{name: "missing createdAt", raw: `{"id":"1","name":"A","email":"a@b","roles":["user"],"auraPoints":4,"trustScore":4}`, wantErr: ErrIncompleteIdentity},
		{name: "wrong type", raw: `{"id":1,"name":"A","email":"a@b","roles":["user"],"auraPoints":4,"trustScore":4,"createdAt":"2026-01-01T00:00:00Z"}`},
		{name: "points not a number", raw: `{"id":"1","name":"A","email":"a@b","roles":["user"],"auraPoints":true,"trustScore":4,"createdAt":"2026-01-01T00:00:00Z"}`},
		{name: "negative fractional points", raw: `{"id":"1","name":"A","email":"a@b","roles":["user"],"auraPoints":-3.7,"trustScore":4,"createdAt":"2026-01-01T00:00:00Z"}`, wantErr: ErrOutOfRange},
		{name: "points overflow", raw: `{"id":"1","name":"A","email":"a@b","roles":["user"],"auraPoints":1e30,"trustScore":4,"createdAt":"2026-01-01T00:00:00Z"}`, wantErr: ErrOutOfRange},
		{name: "no roles", raw: `{"id":"1","name":"A","email":"a@b","roles":[],"auraPoints":4,"trustScore":4,"createdAt":"2026-01-01T00:00:00Z"}`, wantErr: ErrIncompleteIdentity},
		{name: "trust out of range", raw: `{"id":"1","name":"A","email":"a@b","roles":["user"],"auraPoints":4,"trustScore":9,"createdAt":"2026-01-01T00:00:00Z"}`, wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeIdentity([]byte(tt.raw))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestDemoIdentity(t *testing.T) {
	d := DemoIdentity(fixedNow)
	require.NoError(t, d.Validate())
	assert.Equal(t, "Deepak Sai", d.Name)
	assert.Equal(t, int64(1250), d.AuraPoints)
	assert.Equal(t, 4.8, d.TrustScore)
	assert.Equal(t, []string{RoleUser}, d.Roles)
	assert.True(t, d.IsVerified)
}
