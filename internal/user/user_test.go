package user

import (
	"context"
	"errors"
	"testing"
)

type fakeRepo map[int64]*User

func (f fakeRepo) FindByID(_ context.Context, id int64) (*User, error) {
	if id < 0 {
		return nil, errors.New("connection reset")
	}
	u, ok := f[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func TestPhoneService(t *testing.T) {
	t.Parallel()

	svc := NewPhoneService(fakeRepo{
		1: {ID: 1, PhoneNumber: "010-1234-5678"},
		2: {ID: 2},
	})

	tests := []struct {
		name    string
		id      int64
		want    string
		wantErr error
	}{
		{name: "with phone", id: 1, want: "010-1234-5678"},
		{name: "without phone", id: 2, want: ""},
		{name: "unknown", id: 3, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := svc.Execute(context.Background(), tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if _, err := svc.Execute(context.Background(), -1); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}
