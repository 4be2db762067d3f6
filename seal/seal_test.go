package seal

import (
	"bytes"
	"strings"
	"testing"
)

func testParams() Params {
	return Params{
		Memory:      8192,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
	}
}

func TestSealAndOpen(t *testing.T) {
	sealer, err := New([]byte("unit-test-passphrase"), testParams())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	plaintext := []byte("hunter2-replacement")
	additional := []byte("conv:sshd:abc")

	sealed, err := sealer.Seal(plaintext, additional)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if bytes.Contains(sealed, plaintext) {
		t.Fatal("sealed blob contains plaintext")
	}

	opened, err := sealer.Open(sealed, additional)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatalf("roundtrip mismatch: %q vs %q", opened, plaintext)
	}
}

func TestOpenWrongAdditionalData(t *testing.T) {
	sealer, err := New([]byte("unit-test-passphrase"), testParams())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	sealed, err := sealer.Seal([]byte("payload"), []byte("conv:sshd:abc"))
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if _, err := sealer.Open(sealed, []byte("conv:sshd:other")); err == nil {
		t.Fatal("expected open with wrong additional data to fail")
	}
}

func TestOpenWrongPassphrase(t *testing.T) {
	sealer, err := New([]byte("unit-test-passphrase"), testParams())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	sealed, err := sealer.Seal([]byte("payload"), nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	other, err := New([]byte("different-passphrase"), testParams())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if _, err := other.Open(sealed, nil); err == nil {
		t.Fatal("expected open with wrong passphrase to fail")
	}
}

func TestOpenTamperedCiphertext(t *testing.T) {
	sealer, err := New([]byte("unit-test-passphrase"), testParams())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	sealed, err := sealer.Seal([]byte("payload"), nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	sealed[len(sealed)-1] ^= 0x01
	if _, err := sealer.Open(sealed, nil); err == nil {
		t.Fatal("expected tampered blob to fail integrity check")
	}
}

func TestOpenAcrossParameterUpgrade(t *testing.T) {
	weak, err := New([]byte("shared-passphrase"), testParams())
	if err != nil {
		t.Fatalf("New(weak) error: %v", err)
	}

	sealed, err := weak.Seal([]byte("payload"), nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	strong, err := New([]byte("shared-passphrase"), DefaultParams())
	if err != nil {
		t.Fatalf("New(strong) error: %v", err)
	}

	opened, err := strong.Open(sealed, nil)
	if err != nil {
		t.Fatalf("Open across parameter upgrade error: %v", err)
	}
	if string(opened) != "payload" {
		t.Fatalf("unexpected plaintext: %q", opened)
	}
}

func TestOpenTruncated(t *testing.T) {
	sealer, err := New([]byte("unit-test-passphrase"), testParams())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	sealed, err := sealer.Seal([]byte("payload"), nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	for _, n := range []int{0, 1, headerSize - 1, headerSize, headerSize + 5} {
		if _, err := sealer.Open(sealed[:n], nil); err == nil {
			t.Fatalf("expected truncated blob of %d bytes to fail", n)
		}
	}
}

func TestOpenHeaderBelowMinimums(t *testing.T) {
	sealer, err := New([]byte("unit-test-passphrase"), testParams())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	sealed, err := sealer.Seal([]byte("payload"), nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	// Memory below the package minimum.
	tampered := append([]byte(nil), sealed...)
	copy(tampered[1:5], []byte{0, 0, 0, 1})
	if _, err := sealer.Open(tampered, nil); err == nil {
		t.Fatal("expected below-minimum memory parameter to be rejected")
	}

	// Unknown version byte.
	tampered = append([]byte(nil), sealed...)
	tampered[0] = 99
	if _, err := sealer.Open(tampered, nil); err == nil {
		t.Fatal("expected unknown version to be rejected")
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
		want   string
	}{
		{"LowMemory", func(p *Params) { p.Memory = 1024 }, "memory"},
		{"ZeroTime", func(p *Params) { p.Time = 0 }, "time"},
		{"ZeroParallelism", func(p *Params) { p.Parallelism = 0 }, "parallelism"},
		{"ShortSalt", func(p *Params) { p.SaltLength = 8 }, "salt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := testParams()
			tc.mutate(&params)

			_, err := New([]byte("pass"), params)
			if err == nil {
				t.Fatal("expected New to reject invalid params")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestNewRejectsEmptyPassphrase(t *testing.T) {
	if _, err := New(nil, testParams()); err == nil {
		t.Fatal("expected empty passphrase to be rejected")
	}
}

func TestSealerCopiesPassphrase(t *testing.T) {
	passphrase := []byte("mutable-passphrase")
	sealer, err := New(passphrase, testParams())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	sealed, err := sealer.Seal([]byte("payload"), nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	// Caller mutating its slice must not affect the sealer.
	for i := range passphrase {
		passphrase[i] = 0
	}

	if _, err := sealer.Open(sealed, nil); err != nil {
		t.Fatalf("Open after caller mutation error: %v", err)
	}
}
