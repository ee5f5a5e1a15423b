package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/yolodolo42/msgsign/internal/chain"
)

var (
	ErrSeedExists    = errors.New("seed already exists")
	ErrSeedNotFound  = errors.New("seed not found")
	ErrWrongPassword = errors.New("wrong password")
)

const (
	seedFileName    = "seed.json"
	seedFileVersion = 1
)

// seedFile is the on-disk form of an encrypted seed.
type seedFile struct {
	Version int                 `json:"version"`
	Address string              `json:"address"` // m/44'/60'/0'/0/0, for display without unlocking
	Crypto  keystore.CryptoJSON `json:"crypto"`
}

// SeedStore keeps the device seed encrypted under dataDir/keystore.
type SeedStore struct {
	dir     string
	scryptN int
	scryptP int
}

// NewSeedStore creates the keystore directory if needed.
func NewSeedStore(dataDir string) (*SeedStore, error) {
	// StandardScryptN and StandardScryptP are secure defaults
	return NewSeedStoreWithParams(dataDir, keystore.StandardScryptN, keystore.StandardScryptP)
}

// NewSeedStoreWithParams is NewSeedStore with explicit scrypt cost parameters.
func NewSeedStoreWithParams(dataDir string, scryptN, scryptP int) (*SeedStore, error) {
	dir := filepath.Join(dataDir, "keystore")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keystore directory: %w", err)
	}

	return &SeedStore{
		dir:     dir,
		scryptN: scryptN,
		scryptP: scryptP,
	}, nil
}

// Path returns the location of the encrypted seed file.
func (s *SeedStore) Path() string {
	return filepath.Join(s.dir, seedFileName)
}

// Exists reports whether a seed has been stored.
func (s *SeedStore) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Create encrypts seed with password and writes it. It never overwrites an
// existing seed. Returns the first mainnet address of the seed.
func (s *SeedStore) Create(seed []byte, password string) (common.Address, error) {
	dev, err := NewDevice(seed)
	if err != nil {
		return common.Address{}, err
	}
	defer dev.Lock()

	keypath, err := DefaultKeypath(chain.Ethereum, 0)
	if err != nil {
		return common.Address{}, err
	}
	addr, err := dev.address(keypath)
	if err != nil {
		return common.Address{}, err
	}

	cj, err := keystore.EncryptDataV3(seed, []byte(password), s.scryptN, s.scryptP)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to encrypt seed")
	}
	data, err := json.Marshal(seedFile{Version: seedFileVersion, Address: addr.Hex(), Crypto: cj})
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to encode seed file")
	}

	if err := s.writeNew(data); err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

// writeNew stores data at Path without ever exposing a partial file there.
// The data is synced in a temp file in the same directory, then hard-linked
// into place, which fails if a seed already exists.
func (s *SeedStore) writeNew(data []byte) (err error) {
	f, err := os.CreateTemp(s.dir, "."+seedFileName+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp seed file")
	}
	tmp := f.Name()
	defer func() {
		if rmErr := os.Remove(tmp); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = errors.Wrap(rmErr, "failed to remove temp seed file")
		}
	}()

	if err := f.Chmod(0600); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "failed to set seed file permissions")
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "failed to write seed file")
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "failed to sync seed file")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "failed to close seed file")
	}

	if err := os.Link(tmp, s.Path()); err != nil {
		if os.IsExist(err) {
			return ErrSeedExists
		}
		return errors.Wrap(err, "failed to install seed file")
	}
	syncDir(s.dir)
	return nil
}

// syncDir flushes the directory entry of a newly linked file. Not every
// platform supports syncing a directory, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// Address returns the first mainnet address recorded at creation.
func (s *SeedStore) Address() (common.Address, error) {
	sf, err := s.read()
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(sf.Address) {
		return common.Address{}, fmt.Errorf("seed file has invalid address %q", sf.Address)
	}
	return common.HexToAddress(sf.Address), nil
}

// Unlock decrypts the seed and returns a device holding it.
func (s *SeedStore) Unlock(password string) (*Device, error) {
	sf, err := s.read()
	if err != nil {
		return nil, err
	}

	seed, err := keystore.DecryptDataV3(sf.Crypto, password)
	if err != nil {
		if errors.Is(err, keystore.ErrDecrypt) {
			return nil, ErrWrongPassword
		}
		return nil, errors.Wrap(err, "failed to decrypt seed")
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	return NewDevice(seed)
}

func (s *SeedStore) read() (*seedFile, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSeedNotFound
		}
		return nil, errors.Wrap(err, "failed to read seed file")
	}

	var sf seedFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, errors.Wrap(err, "failed to decode seed file")
	}
	if sf.Version != seedFileVersion {
		return nil, fmt.Errorf("unsupported seed file version %d", sf.Version)
	}
	return &sf, nil
}
