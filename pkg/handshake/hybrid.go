// hybrid.go implements the hybrid handshake.
//
// Hybrid mode runs the classical and post-quantum exchanges back to back on
// one connection and feeds both raw secrets through the session KDF:
//
//	key = HKDF(ecdhSecret || kyberSecret)
//
// An attacker must break both exchanges to recover the key, which is the
// hedge hybrid deployments buy: security holds while either primitive does.
// The cost shows up in this benchmark as the sum of both handshakes' sizes
// and latency.
package handshake

import (
	"net"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
	"github.com/pzverkov/pqbench/pkg/crypto"
)

func hybridInitiate(conn net.Conn) ([]byte, error) {
	ecdhSecret, err := classicalInitiate(conn)
	if err != nil {
		return nil, err
	}
	defer crypto.Zeroize(ecdhSecret)

	kemSecret, err := pqcInitiate(conn)
	if err != nil {
		return nil, err
	}
	defer crypto.Zeroize(kemSecret)

	key, err := crypto.CombineSecrets(ecdhSecret, kemSecret)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(constants.ModeHybrid), "combine", err)
	}
	return key, nil
}

func hybridRespond(conn net.Conn) ([]byte, error) {
	ecdhSecret, err := classicalRespond(conn)
	if err != nil {
		return nil, err
	}
	defer crypto.Zeroize(ecdhSecret)

	kemSecret, err := pqcRespond(conn)
	if err != nil {
		return nil, err
	}
	defer crypto.Zeroize(kemSecret)

	key, err := crypto.CombineSecrets(ecdhSecret, kemSecret)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(constants.ModeHybrid), "combine", err)
	}
	return key, nil
}
