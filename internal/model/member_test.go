package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMember_Key(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		want   string
	}{
		{
			name:   "prefers id",
			member: Member{ID: "m1", MongoID: "64abc"},
			want:   "m1",
		},
		{
			name:   "falls back to mongo id",
			member: Member{MongoID: "64abc"},
			want:   "64abc",
		},
		{
			name:   "both absent",
			member: Member{Name: "Ali"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.member.Key())
		})
	}
}

func TestMember_UnmarshalMongoID(t *testing.T) {
	raw := `{"_id":"64abc","name":"Ali Khan","mayyathuStatus":true}`

	var m Member
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	assert.Equal(t, "64abc", m.Key())
	assert.Equal(t, "Ali Khan", m.DisplayName())
	assert.True(t, m.MayyathuStatus)
	assert.Equal(t, StatusUnknown, m.Status)
}

func TestCollection_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		col  Collection
		want string
	}{
		{
			name: "collected by wins",
			col:  Collection{CollectedBy: "Ali Khan", Description: "monthly"},
			want: "Ali Khan",
		},
		{
			name: "description fallback",
			col:  Collection{Description: "anonymous donation"},
			want: "anonymous donation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.col.DisplayName())
		})
	}
}

func TestDerivedStatus_Valid(t *testing.T) {
	assert.True(t, StatusPaid.Valid())
	assert.True(t, StatusDue.Valid())
	assert.True(t, StatusOverdue.Valid())
	assert.False(t, StatusUnknown.Valid())
	assert.False(t, DerivedStatus("pending").Valid())
}
