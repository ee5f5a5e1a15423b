package chain

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Network identifies the chain a request is made for.
type Network int

const (
	Ethereum Network = iota
	Sepolia
	Holesky
)

// Hardened BIP-44 coin types.
const (
	CoinTypeEthereum uint32 = 60
	CoinTypeTestnet  uint32 = 1
)

// Config holds the static parameters of a network.
type Config struct {
	Key       string
	Name      string
	ChainID   *big.Int
	CoinType  uint32 // BIP-44 coin type, unhardened
	IsTestnet bool
}

var networks = map[Network]*Config{
	Ethereum: {
		Key:       "ethereum",
		Name:      "Ethereum Mainnet",
		ChainID:   big.NewInt(1),
		CoinType:  CoinTypeEthereum,
		IsTestnet: false,
	},
	Sepolia: {
		Key:       "sepolia",
		Name:      "Sepolia Testnet",
		ChainID:   big.NewInt(11155111),
		CoinType:  CoinTypeTestnet,
		IsTestnet: true,
	},
	Holesky: {
		Key:       "holesky",
		Name:      "Holesky Testnet",
		ChainID:   big.NewInt(17000),
		CoinType:  CoinTypeTestnet,
		IsTestnet: true,
	},
}

// Config returns the configuration of n, or nil for an unknown network.
func (n Network) Config() *Config {
	return networks[n]
}

func (n Network) String() string {
	if cfg := networks[n]; cfg != nil {
		return cfg.Key
	}
	return fmt.Sprintf("network(%d)", int(n))
}

// Lookup resolves a network by its key ("ethereum", "sepolia", ...).
func Lookup(name string) (Network, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for n, cfg := range networks {
		if cfg.Key == key {
			return n, nil
		}
	}
	return 0, fmt.Errorf("unknown network: %s (known: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the sorted keys of all known networks.
func Names() []string {
	names := make([]string, 0, len(networks))
	for _, cfg := range networks {
		names = append(names, cfg.Key)
	}
	sort.Strings(names)
	return names
}
