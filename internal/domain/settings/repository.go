package settings

import "context"

// KeyAutoSendEnabled is the global kill-switch for automated dispatch. The
// worker reads it once per run; when false, no jobs are processed no matter
// how many are due.
const KeyAutoSendEnabled = "auto_send_enabled"

// Repository defines access to operator-settable configuration flags.
type Repository interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}
