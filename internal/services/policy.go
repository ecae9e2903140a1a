package services

import "eventconnect/internal/domain"

// OwnershipPolicy permits a mutation only when the subject is the owner.
// There is no administrator override.
type OwnershipPolicy struct{}

var _ domain.AuthorizationPolicy = OwnershipPolicy{}

func (OwnershipPolicy) CanMutate(subjectEmail, ownerEmail string) bool {
	return subjectEmail != "" && subjectEmail == ownerEmail
}
