package keys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mosaicnetworks/gcl/src/crypto"
)

func TestSimpleKeyfile(t *testing.T) {
	simpleKeyfile := NewSimpleKeyfile(filepath.Join(t.TempDir(), "keys", "val1"))

	// Try a read, should get nothing
	key, err := simpleKeyfile.ReadKey()
	if err == nil {
		t.Fatalf("ReadKey should generate an error")
	}
	if key != nil {
		t.Fatalf("key is not nil")
	}

	key, _ = GenerateECDSAKey()

	if err := simpleKeyfile.WriteKey(key); err != nil {
		t.Fatalf("err: %v", err)
	}

	nKey, err := simpleKeyfile.ReadKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if nKey.D.Cmp(key.D) != 0 || nKey.X.Cmp(key.X) != 0 || nKey.Y.Cmp(key.Y) != 0 {
		t.Fatalf("Keys do not match")
	}
}

func TestFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "val1")
	simpleKeyfile := NewSimpleKeyfile(path)

	key, _ := GenerateECDSAKey()
	if err := simpleKeyfile.WriteKey(key); err != nil {
		t.Fatal(err)
	}

	if err := os.Chmod(path, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := simpleKeyfile.ReadKey(); err == nil {
		t.Fatal("ReadKey should refuse a world-readable key file")
	}
}

func TestPublicKeyHexRoundTrip(t *testing.T) {
	key, _ := GenerateECDSAKey()

	pubHex := PublicKeyHex(&key.PublicKey)

	pub, err := ParsePublicKeyHex("0x" + pubHex)
	if err != nil {
		t.Fatal(err)
	}
	if pub.X.Cmp(key.X) != 0 || pub.Y.Cmp(key.Y) != 0 {
		t.Fatal("parsed public key does not match")
	}

	if _, err := ParsePublicKeyHex("zz"); err == nil {
		t.Fatal("non hex public key should fail")
	}
	if _, err := ParsePublicKeyHex("0400"); err == nil {
		t.Fatal("point off the curve should fail")
	}
}

func TestSignatureEncoding(t *testing.T) {
	privKey, _ := GenerateECDSAKey()

	msgHashBytes := crypto.SHA256([]byte("J'aime mieux forger mon ame que la meubler"))

	r, s, _ := Sign(privKey, msgHashBytes)

	dr, ds, err := DecodeSignature(EncodeSignature(r, s))
	if err != nil {
		t.Fatal(err)
	}

	if r.Cmp(dr) != 0 || s.Cmp(ds) != 0 {
		t.Fatalf("Signature values differ after decoding")
	}

	if !Verify(&privKey.PublicKey, msgHashBytes, dr, ds) {
		t.Fatal("decoded signature should verify")
	}

	if _, _, err := DecodeSignature("nope"); err == nil {
		t.Fatal("DecodeSignature should reject a single value")
	}
}
