// Package params holds the protocol constants and per-domain deployment
// configuration for the TACo network client.
package params

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Domain identifies one TACo deployment.
type Domain string

const (
	// MainnetDomain is the production deployment (Ethereum + Polygon PoS).
	MainnetDomain Domain = "mainnet"
	// LynxDomain is the long-lived testnet deployment (Sepolia + Amoy).
	LynxDomain Domain = "lynx"
	// TapirDomain is the staging testnet deployment (Sepolia + Amoy).
	TapirDomain Domain = "tapir"
)

// DomainConfig describes the chains and well-known contract addresses of a
// TACo deployment. The Coordinator lives on the L2 (polygon) chain; token
// and application contracts live on the L1 (ethereum) chain.
type DomainConfig struct {
	Name Domain

	// EthChainID is the chain carrying the token and application contracts.
	EthChainID uint64
	// PolygonChainID is the chain carrying the Coordinator.
	PolygonChainID uint64

	Coordinator common.Address
	NuToken     common.Address
	Application common.Address
}

// Per-domain deployment configurations.
var (
	MainnetConfig = DomainConfig{
		Name:           MainnetDomain,
		EthChainID:     1,
		PolygonChainID: 137,
		Coordinator:    common.HexToAddress("0xE74259e3dafe30bAA8700238e324b47aC98FE755"),
		NuToken:        common.HexToAddress("0x4fE83213D56308330EC302a8BD641f1d0113A4Cc"),
		Application:    common.HexToAddress("0x347CC7ede7e5517bD47D20620B2CF1b406edcF07"),
	}

	LynxConfig = DomainConfig{
		Name:           LynxDomain,
		EthChainID:     11155111,
		PolygonChainID: 80002,
		Coordinator:    common.HexToAddress("0xE9e94499b0F67e9DBc8A5e7B922aC0a4c49b985E"),
		NuToken:        common.HexToAddress("0x34f2d2a1b6d10033a974a2722bfdbda8d1b1ebe0"),
		Application:    common.HexToAddress("0x329bc9Df0e45f360583374726ccaFF003264a136"),
	}

	TapirConfig = DomainConfig{
		Name:           TapirDomain,
		EthChainID:     11155111,
		PolygonChainID: 80002,
		Coordinator:    common.HexToAddress("0xE690b6bCC0616Dc5294fF84ff4e00335cA52C388"),
		NuToken:        common.HexToAddress("0x8eFC9D8d49aE25ae104a9cd34F224b87EC4b2837"),
		Application:    common.HexToAddress("0x94F083C3fb390ca1abD68CAc9D671A11aCC36F86"),
	}
)

// SupportedDomains lists the deployments this client knows about.
var SupportedDomains = map[Domain]DomainConfig{
	MainnetDomain: MainnetConfig,
	LynxDomain:    LynxConfig,
	TapirDomain:   TapirConfig,
}

// DomainConfigOf returns the configuration for name.
func DomainConfigOf(name Domain) (DomainConfig, bool) {
	cfg, ok := SupportedDomains[name]
	return cfg, ok
}

// ChainlistBaseURL serves one JSON file per domain mapping chain ids to
// default public RPC endpoints.
const ChainlistBaseURL = "https://raw.githubusercontent.com/taco-network/chainlist/main"

// ChainlistURL returns the default-endpoint list URL for a domain.
func ChainlistURL(name Domain) string {
	return fmt.Sprintf("%s/%s.json", ChainlistBaseURL, name)
}
