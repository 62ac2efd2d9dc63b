package password

import (
	"errors"
	"strings"
	"testing"
)

func testHashers() map[string]Hasher {
	return map[string]Hasher{
		"bcrypt":   NewBcryptHasher(WithCost(4)),
		"argon2id": NewArgon2Hasher(WithArgon2Memory(1024), WithArgon2Threads(1)),
	}
}

func TestHasher_RoundTrip(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			digest, err := h.Hash("s3cret!")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			if digest == "s3cret!" {
				t.Fatal("digest must not equal plaintext")
			}

			ok, err := h.Verify("s3cret!", digest)
			if err != nil || !ok {
				t.Errorf("expected match, got ok=%v err=%v", ok, err)
			}

			ok, err = h.Verify("wrong-password", digest)
			if err != nil {
				t.Errorf("mismatch must not be an error, got %v", err)
			}
			if ok {
				t.Error("expected mismatch for wrong password")
			}
		})
	}
}

func TestHasher_DistinctSalts(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			a, _ := h.Hash("s3cret!")
			b, _ := h.Hash("s3cret!")
			if a == b {
				t.Error("expected distinct digests for the same password")
			}
			for _, d := range []string{a, b} {
				if ok, _ := h.Verify("s3cret!", d); !ok {
					t.Errorf("expected %q to verify", d)
				}
			}
		})
	}
}

func TestHasher_MalformedDigest(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify("s3cret!", "not-a-hash")
			if ok {
				t.Error("expected no match")
			}
			if !errors.Is(err, ErrMalformedHash) {
				t.Errorf("expected ErrMalformedHash, got %v", err)
			}
		})
	}
}

func TestArgon2Hasher_OutOfRangeParams(t *testing.T) {
	h := NewArgon2Hasher(WithArgon2Memory(1024), WithArgon2Threads(1))
	digest, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	tests := []struct {
		name   string
		params string
	}{
		{"zero passes", "m=1024,t=0,p=1"},
		{"zero threads", "m=1024,t=1,p=0"},
		{"memory below lanes", "m=8,t=1,p=4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := strings.Replace(digest, "m=1024,t=1,p=1", tt.params, 1)
			if bad == digest {
				t.Fatalf("expected params in digest %q", digest)
			}
			ok, err := h.Verify("s3cret!", bad)
			if ok {
				t.Error("expected no match")
			}
			if !errors.Is(err, ErrMalformedHash) {
				t.Errorf("expected ErrMalformedHash, got %v", err)
			}
		})
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	_, err := h.Hash(strings.Repeat("a", 73))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", 72)); err != nil {
		t.Errorf("72 bytes should be accepted, got %v", err)
	}
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	if h := NewBcryptHasher(WithCost(99)); h.cost != DefaultBcryptCost {
		t.Errorf("expected out-of-range cost ignored, got %d", h.cost)
	}
}

func TestArgon2Hasher_Format(t *testing.T) {
	h := NewArgon2Hasher(WithArgon2Memory(1024), WithArgon2Time(2), WithArgon2Threads(1))
	digest, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$v=19$m=1024,t=2,p=1$") {
		t.Errorf("unexpected digest format %q", digest)
	}
}

func TestNewHasher_FromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default is bcrypt", Config{}, "*password.BcryptHasher"},
		{"argon2id", Config{Algorithm: AlgorithmArgon2id}, "*password.Argon2Hasher"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHasher(tt.cfg)
			if got := typeName(h); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Algorithm: "md5"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported algorithm")
	}

	cfg = Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("expected default cost 10, got %d", cfg.BcryptCost)
	}

	cfg = Config{Algorithm: AlgorithmBcrypt, BcryptCost: 40}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range cost")
	}

	cfg = Config{Algorithm: AlgorithmArgon2id, Argon2: Argon2Params{Time: 1, Memory: 16, Threads: 4}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for argon2 memory below 8 KiB per thread")
	}
}

func typeName(h Hasher) string {
	switch h.(type) {
	case *BcryptHasher:
		return "*password.BcryptHasher"
	case *Argon2Hasher:
		return "*password.Argon2Hasher"
	default:
		return "unknown"
	}
}
