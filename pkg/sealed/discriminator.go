package sealed

// Discriminator lets a variant type choose the discriminator it is written
// under. Case consults it on the variant's zero value; without it the
// variant codec's descriptor name is used.
type Discriminator interface {
	DiscriminatorValue() string
}
