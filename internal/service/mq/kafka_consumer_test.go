package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandleUntilDone(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		timeout      time.Duration
		wantErr      bool
		wantAttempts int
	}{
		{"一次成功", 0, time.Second, false, 1},
		{"失败后原地重试直到成功", 3, time.Second, false, 4},
		{"ctx 取消时停止重试", 1 << 30, 30 * time.Millisecond, true, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), tt.timeout)
			defer cancel()

			attempts := 0
			var seen []string
			handler := func(msg *Message) error {
				attempts++
				seen = append(seen, msg.ID)
				if attempts <= tt.failures {
					return errors.New("downstream unavailable")
				}
				return nil
			}

			err := handleUntilDone(ctx, &Message{ID: "0-42"}, handler, time.Millisecond, 4*time.Millisecond)
			if tt.wantErr {
				if !errors.Is(err, context.DeadlineExceeded) {
					t.Fatalf("期望 ctx 超时错误，实际 %v", err)
				}
				assert.GreaterOrEqual(t, attempts, 1)
			} else {
				if err != nil {
					t.Fatalf("不应返回错误: %v", err)
				}
				if attempts != tt.wantAttempts {
					t.Fatalf("处理次数不符: got %d want %d", attempts, tt.wantAttempts)
				}
			}
			for _, id := range seen {
				assert.Equal(t, "0-42", id, "重试的必须是同一条消息")
			}
		})
	}
}
