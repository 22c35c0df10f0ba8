package confirm

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/scy"
)

// ErrInvalidCode is reported when a submitted credential does not match.
var ErrInvalidCode = errors.New("invalid code")

// Verifier checks the credential entered for a challenge. Implementations
// must be safe for concurrent use.
type Verifier interface {
	Verify(ctx context.Context, code string) error
}

// AcceptAll approves any credential. It exists for tests and automation and
// must be wired explicitly; it is never a default.
type AcceptAll struct{}

func (AcceptAll) Verify(context.Context, string) error { return nil }

// DenyAll rejects every credential.
type DenyAll struct{}

func (DenyAll) Verify(context.Context, string) error { return ErrInvalidCode }

// SecretVerifier compares the submitted code against a reference secret
// loaded through scy. The secret is fetched lazily on first use and the
// comparison runs over SHA-256 digests in constant time.
type SecretVerifier struct {
	service  *scy.Service
	resource *scy.Resource

	once   sync.Once
	digest [sha256.Size]byte
	err    error
}

// NewSecretVerifier creates a verifier backed by the given scy resource,
// e.g. scy.NewResource("", "file:///secure/pin.enc", "blowfish://default").
func NewSecretVerifier(resource *scy.Resource) *SecretVerifier {
	return &SecretVerifier{service: scy.New(), resource: resource}
}

func (v *SecretVerifier) Verify(ctx context.Context, code string) error {
	v.once.Do(func() {
		secret, err := v.service.Load(ctx, v.resource)
		if err != nil {
			v.err = fmt.Errorf("failed to load verification secret: %w", err)
			return
		}
		v.digest = sha256.Sum256([]byte(strings.TrimSpace(secret.String())))
	})
	if v.err != nil {
		return v.err
	}
	entered := sha256.Sum256([]byte(code))
	if subtle.ConstantTimeCompare(entered[:], v.digest[:]) != 1 {
		return ErrInvalidCode
	}
	return nil
}

// StaticVerifier matches against a digest computed at construction time; it
// backs setups where the reference secret is already in memory.
type StaticVerifier struct {
	digest [sha256.Size]byte
}

func NewStaticVerifier(expected string) *StaticVerifier {
	return &StaticVerifier{digest: sha256.Sum256([]byte(expected))}
}

func (v *StaticVerifier) Verify(_ context.Context, code string) error {
	entered := sha256.Sum256([]byte(code))
	if subtle.ConstantTimeCompare(entered[:], v.digest[:]) != 1 {
		return ErrInvalidCode
	}
	return nil
}
