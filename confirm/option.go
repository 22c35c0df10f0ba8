package confirm

// Option customizes a Service.
type Option func(s *Service)

// WithVerifier sets the credential verifier consulted by Submit.
func WithVerifier(verifier Verifier) Option {
	return func(s *Service) {
		s.verifier = verifier
	}
}
