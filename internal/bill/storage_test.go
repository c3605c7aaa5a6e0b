package bill

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var storage *LocalStorage

	BeforeEach(func() {
		var err error
		storage, err = NewLocalStorage(filepath.Join(GinkgoT().TempDir(), "images"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should save and retrieve an image", func() {
		handle, err := storage.Save("b1_hep.jpg", []byte("image-bytes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(handle).To(Equal("b1_hep.jpg"))

		data, err := storage.Get(handle)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("image-bytes")))
	})

	It("should delete an image", func() {
		handle, err := storage.Save("b1_hep.jpg", []byte("image-bytes"))
		Expect(err).NotTo(HaveOccurred())

		Expect(storage.Delete(handle)).To(Succeed())

		_, err = storage.Get(handle)
		Expect(err).To(HaveOccurred())
	})

	It("should error when getting a missing image", func() {
		_, err := storage.Get("missing.jpg")
		Expect(err).To(HaveOccurred())
	})

	It("should error when deleting a missing image", func() {
		Expect(storage.Delete("missing.jpg")).NotTo(Succeed())
	})
})
