package pbe

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// algorithm describes how one jasypt algorithm name derives its cipher.
type algorithm struct {
	name      string
	blockSize int
	newHash   func() hash.Hash

	// pbes2 schemes derive only a key and take the IV from the generator;
	// pbes1 schemes derive key and IV from the password and salt.
	pbes2  bool
	keyLen int
}

var pbes2Pattern = regexp.MustCompile(`(?i)^PBEWithHMAC(SHA1|SHA224|SHA256|SHA384|SHA512)AndAES_(128|256)$`)

var pbes2Hashes = map[string]func() hash.Hash{
	"SHA1":   sha1.New,
	"SHA224": sha256.New224,
	"SHA256": sha256.New,
	"SHA384": sha512.New384,
	"SHA512": sha512.New,
}

var pbes1Algorithms = map[string]algorithm{
	"PBEWITHMD5ANDDES":  {name: "PBEWithMD5AndDES", blockSize: des.BlockSize, newHash: md5.New},
	"PBEWITHSHA1ANDDES": {name: "PBEWithSHA1AndDES", blockSize: des.BlockSize, newHash: sha1.New},
}

// lookupAlgorithm resolves a jasypt algorithm name, case-insensitively.
func lookupAlgorithm(name string) (algorithm, bool) {
	if m := pbes2Pattern.FindStringSubmatch(name); m != nil {
		hashName := strings.ToUpper(m[1])
		keyLen := 16
		if m[2] == "256" {
			keyLen = 32
		}
		return algorithm{
			name:      fmt.Sprintf("PBEWithHMAC%sAndAES_%s", hashName, m[2]),
			blockSize: aes.BlockSize,
			newHash:   pbes2Hashes[hashName],
			pbes2:     true,
			keyLen:    keyLen,
		}, true
	}
	a, ok := pbes1Algorithms[strings.ToUpper(name)]
	return a, ok
}

// SupportedAlgorithms lists every algorithm name New accepts.
func SupportedAlgorithms() []string {
	var names []string
	for _, a := range pbes1Algorithms {
		names = append(names, a.name)
	}
	for _, h := range []string{"SHA1", "SHA224", "SHA256", "SHA384", "SHA512"} {
		for _, bits := range []string{"128", "256"} {
			names = append(names, "PBEWithHMAC"+h+"AndAES_"+bits)
		}
	}
	sort.Strings(names)
	return names
}

// derive returns the block cipher and the IV used for one message. iv is the
// generated IV; pbes1 schemes ignore it and use the derived one.
func (a algorithm) derive(password string, salt, iv []byte, iterations int) (cipher.Block, []byte, error) {
	if a.pbes2 {
		key := pbkdf2.Key([]byte(password), salt, iterations, a.keyLen, a.newHash)
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, nil, err
		}
		return block, iv, nil
	}

	h := a.newHash()
	h.Write([]byte(password))
	h.Write(salt)
	dk := h.Sum(nil)
	for i := 1; i < iterations; i++ {
		h.Reset()
		h.Write(dk)
		dk = h.Sum(nil)
	}
	block, err := des.NewCipher(dk[:8])
	if err != nil {
		return nil, nil, err
	}
	return block, dk[8:16], nil
}
