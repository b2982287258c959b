package webrtc

// DTLSRole is the client/server role a Transport's DTLS half takes once
// setup intersection (spec.md §4.2, §4.3) has been decided.
type DTLSRole int

const (
	DTLSRoleAuto DTLSRole = iota + 1
	DTLSRoleClient
	DTLSRoleServer
)

func (r DTLSRole) String() string {
	switch r {
	case DTLSRoleClient:
		return "client"
	case DTLSRoleServer:
		return "server"
	default:
		return "auto"
	}
}

// dtlsRoleFromSetup maps the SDP a=setup value an answer commits to onto
// the DTLS role the local transport takes, grounded on the setup
// intersection table of spec.md §4.2: the side that answers `active`
// dials as a DTLS client, `passive` listens as a DTLS server.
func dtlsRoleFromSetup(setup string) DTLSRole {
	switch setup {
	case "active":
		return DTLSRoleClient
	case "passive":
		return DTLSRoleServer
	default:
		return DTLSRoleAuto
	}
}

// intersectSetup implements the setup-intersection table of spec.md §4.2.
// remote actpass with no local preference resolves to active — see
// DESIGN.md Open Question #2.
func intersectSetup(remoteSetup string) (answerSetup string, err error) {
	switch remoteSetup {
	case "actpass", "":
		return "active", nil
	case "passive":
		return "active", nil
	case "active":
		return "passive", nil
	default:
		return "", ErrSessionDescriptionInvalidSetup
	}
}
