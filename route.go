package goGate

// RouteDecision identifies the single navigation flow currently reachable.
// It is computed fresh on every evaluation, never stored, and carries no side
// effects.
type RouteDecision uint8

const (
	// RoutePending is an exported constant or variable used by the gating engine.
	RoutePending RouteDecision = iota
	// RouteWelcome is an exported constant or variable used by the gating engine.
	RouteWelcome
	// RouteAuthFlow is the sign-in/sign-up flow the Welcome screen leads into.
	// Decide never returns it; it exists so consumers can switch exhaustively
	// over every flow entry point.
	RouteAuthFlow
	// RouteVerifyOtp is an exported constant or variable used by the gating engine.
	RouteVerifyOtp
	// RouteOnboardingProfile is an exported constant or variable used by the gating engine.
	RouteOnboardingProfile
	// RouteMainApp is an exported constant or variable used by the gating engine.
	RouteMainApp
)

// String describes the string operation and its observable behavior.
func (d RouteDecision) String() string {
	switch d {
	case RoutePending:
		return "pending"
	case RouteWelcome:
		return "welcome"
	case RouteAuthFlow:
		return "auth_flow"
	case RouteVerifyOtp:
		return "verify_otp"
	case RouteOnboardingProfile:
		return "onboarding_profile"
	case RouteMainApp:
		return "main_app"
	default:
		return "unknown"
	}
}

// Decide maps session and profile state to exactly one RouteDecision.
//
// Decide is pure, total, and side-effect free; every flow entry point must
// consume it so that all flows agree on the current decision. Rows are
// evaluated top to bottom, first match wins:
//
//	loading (either)                         -> Pending
//	not authenticated                        -> Welcome
//	profile absent or erroring               -> Welcome (fail-closed)
//	not verified                             -> VerifyOtp
//	onboarding incomplete                    -> OnboardingProfile
//	otherwise                                -> MainApp
//
// The third row is deliberate: verification and onboarding flags are
// security/consent gates, and a stale cached "verified" flag must not leak
// access after a server-side revocation.
func Decide(session SessionState, profile ProfileState) RouteDecision {
	switch {
	case session.IsLoading || profile.IsLoading:
		return RoutePending
	case !session.IsAuthenticated:
		return RouteWelcome
	case !profile.Present || profile.IsError:
		return RouteWelcome
	case !profile.IsVerified:
		return RouteVerifyOtp
	case !profile.OnboardingCompleted:
		return RouteOnboardingProfile
	default:
		return RouteMainApp
	}
}
