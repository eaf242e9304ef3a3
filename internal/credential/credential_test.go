package credential

import (
	"testing"

	"github.com/voxdrop/voxdrop/internal/common"
)

func TestHashAndVerify_Success(t *testing.T) {
	t.Parallel()

	hash, err := Hash("secret123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if hash == "secret123" {
		t.Fatalf("hash must not equal the plaintext password")
	}

	if !Verify("secret123", hash) {
		t.Fatalf("Verify rejected the correct password")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := Hash("secret123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if Verify("secret124", hash) {
		t.Fatalf("Verify accepted a wrong password")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	t.Parallel()

	_, err := Hash("")
	if err != common.ErrInvalidInput {
		t.Fatalf("expected common.ErrInvalidInput, got %v", err)
	}
}

func TestHash_Salted(t *testing.T) {
	t.Parallel()

	// two hashes of the same password differ because of per-hash salt
	h1, err := Hash("secret123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := Hash("secret123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected salted hashes to differ")
	}
}

func TestVerify_NoLoginHash(t *testing.T) {
	t.Parallel()

	for _, password := range []string{"", "!", "secret123", NoLoginHash} {
		if Verify(password, NoLoginHash) {
			t.Fatalf("NoLoginHash verified against %q", password)
		}
	}
}
