package session

// State bundles the mutable session state. It is owned by the UI event
// loop; nothing here is safe for concurrent use.
type State struct {
	Credential Credential
	Catalog    *Catalog
	Transcript *Transcript
}

// NewState creates an empty session backed by the given default models.
func NewState(defaultModels map[string][]string) *State {
	return &State{
		Catalog:    NewCatalog(defaultModels),
		Transcript: &Transcript{},
	}
}

// SetToken replaces the raw credential text. Any change immediately
// invalidates the verified flag and drops the fetched catalog, before
// any network round-trip happens.
func (s *State) SetToken(token string) {
	if token == s.Credential.Token {
		return
	}
	s.Credential = Credential{Token: token}
	s.Catalog.Clear()
}

// Restore seeds the credential from the persisted side-channel.
func (s *State) Restore(token string, verified bool) {
	s.Credential = Credential{Token: token, Verified: verified}
}

// BeginVerify marks a verification round-trip as in flight.
func (s *State) BeginVerify() {
	s.Credential.Checking = true
}

// FinishVerify records the verification outcome. Failure clears the
// verified flag and the fetched catalog.
func (s *State) FinishVerify(ok bool) {
	s.Credential.Checking = false
	s.Credential.Verified = ok
	if !ok {
		s.Catalog.Clear()
	}
}
