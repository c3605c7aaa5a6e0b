package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ClassifyProvider", func() {
	var (
		text  string
		entry *ProviderEntry
	)

	JustBeforeEach(func() {
		entry = ClassifyProvider(text)
	})

	When("the text names an electricity provider", func() {
		BeforeEach(func() {
			text = "HEP Elektra Račun za električnu energiju Iznos: 65,99 €"
		})

		It("should resolve the provider", func() {
			Expect(entry).NotTo(BeNil())
			Expect(entry.Name).To(Equal("HEP"))
		})

		It("should classify as electricity", func() {
			Expect(entry.Type).To(Equal(Electricity))
		})
	})

	When("an internet bill comes from a provider listed under two types", func() {
		BeforeEach(func() {
			text = "Hrvatski Telekom Internet račun Iznos: 29,99 €"
		})

		It("should land on the internet entry", func() {
			Expect(entry).NotTo(BeNil())
			Expect(entry.Name).To(Equal("Hrvatski Telekom"))
			Expect(entry.Type).To(Equal(Internet))
		})
	})

	When("a phone bill comes from the same provider", func() {
		BeforeEach(func() {
			text = "Hrvatski Telekom Račun za mobilne usluge Iznos: 25,00 €"
		})

		It("should land on the phone entry", func() {
			Expect(entry).NotTo(BeNil())
			Expect(entry.Name).To(Equal("Hrvatski Telekom"))
			Expect(entry.Type).To(Equal(Phone))
		})
	})

	When("the text matches an alias rather than the display name", func() {
		BeforeEach(func() {
			text = "Tele2 d.o.o. račun za telefon"
		})

		It("should resolve through the alias pattern", func() {
			Expect(entry).NotTo(BeNil())
			Expect(entry.Name).To(Equal("Telemach"))
			Expect(entry.Type).To(Equal(Phone))
		})
	})

	When("the text mentions the TV licence fee", func() {
		BeforeEach(func() {
			text = "Hrvatska Radiotelevizija Mjesečna pristojba Iznos: 10,62 €"
		})

		It("should classify as tv", func() {
			Expect(entry).NotTo(BeNil())
			Expect(entry.Type).To(Equal(TV))
		})
	})

	When("no provider matches", func() {
		BeforeEach(func() {
			text = "Komunalni račun Iznos: 40,00 €"
		})

		It("should return nil", func() {
			Expect(entry).To(BeNil())
		})
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("should return nil", func() {
			Expect(entry).To(BeNil())
		})
	})
})

var _ = Describe("ParseUtilityType", func() {
	DescribeTable("mapping strings to the closed enum",
		func(input string, expected UtilityType) {
			Expect(ParseUtilityType(input)).To(Equal(expected))
		},
		Entry("electricity", "electricity", Electricity),
		Entry("water", "water", Water),
		Entry("tv", "tv", TV),
		Entry("unknown maps to other", "cable", Other),
		Entry("empty maps to other", "", Other),
	)
})
