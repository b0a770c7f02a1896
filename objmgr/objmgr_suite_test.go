/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package objmgr

import (
	"os"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestObjmgr(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Objmgr Suite")
}

var _ = Describe("Manager", func() {
	var (
		dir string
		mgr *Manager
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "objmgr-")
		Expect(err).NotTo(HaveOccurred())
		mgr, err = Open(dir, "pop")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = mgr.Close()
		_ = os.RemoveAll(dir)
	})

	It("returns a newly-added name with nonzero probability", func() {
		Expect(mgr.Add("alpha", 1, 100)).To(Succeed())
		seen := false
		for i := 0; i < 50; i++ {
			name, err := mgr.GetNameForRead()
			Expect(err).NotTo(HaveOccurred())
			mgr.ReleaseNameFromRead(name)
			if name == "alpha" {
				seen = true
			}
		}
		Expect(seen).To(BeTrue())
	})

	It("never returns a name again once its delete commits", func() {
		Expect(mgr.Add("alpha", 1, 100)).To(Succeed())
		Expect(mgr.Add("beta", 1, 100)).To(Succeed())

		name, err := mgr.GetNameForDelete()
		Expect(err).NotTo(HaveOccurred())
		Expect(mgr.ReleaseNameFromDelete(name, true)).To(Succeed())
		Expect(mgr.Len()).To(Equal(1))

		for i := 0; i < 50; i++ {
			got, err := mgr.GetNameForRead()
			Expect(err).NotTo(HaveOccurred())
			mgr.ReleaseNameFromRead(got)
			Expect(got).NotTo(Equal(name))
		}
	})

	It("round-trips 5 names, deletes one, and shrinks the file by exactly 18 bytes", func() {
		names := []string{"n0", "n1", "n2", "n3", "n4"}
		for _, n := range names {
			Expect(mgr.Add(n, 1, 10)).To(Succeed())
		}
		before, err := os.Stat(segmentPath(dir, "pop", 0))
		Expect(err).NotTo(HaveOccurred())

		victim, err := mgr.GetNameForDelete()
		Expect(err).NotTo(HaveOccurred())
		Expect(mgr.ReleaseNameFromDelete(victim, true)).To(Succeed())

		after, err := os.Stat(segmentPath(dir, "pop", 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(before.Size() - after.Size()).To(Equal(int64(RecordSize)))
		Expect(mgr.Len()).To(Equal(4))

		seen := map[string]bool{}
		for i := 0; i < 200; i++ {
			got, err := mgr.GetNameForRead()
			Expect(err).NotTo(HaveOccurred())
			mgr.ReleaseNameFromRead(got)
			Expect(got).NotTo(Equal(victim))
			seen[got] = true
		}
		Expect(len(seen)).To(Equal(4))
	})

	It("survives reopening from disk", func() {
		Expect(mgr.Add("persisted", 2, 55)).To(Succeed())
		Expect(mgr.Close()).To(Succeed())

		reopened, err := Open(dir, "pop")
		Expect(err).NotTo(HaveOccurred())
		defer reopened.Close()

		Expect(reopened.Len()).To(Equal(1))
		name, err := reopened.GetNameForRead()
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("persisted"))
	})

	It("rejects concurrent deletes of the same name until released", func() {
		Expect(mgr.Add("only", 1, 1)).To(Succeed())
		name, err := mgr.GetNameForDelete()
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("only"))

		_, err = mgr.GetNameForDelete()
		Expect(err).To(HaveOccurred())

		Expect(mgr.ReleaseNameFromDelete(name, false)).To(Succeed())
		name2, err := mgr.GetNameForDelete()
		Expect(err).NotTo(HaveOccurred())
		Expect(name2).To(Equal("only"))
		Expect(mgr.ReleaseNameFromDelete(name2, false)).To(Succeed())
	})
})
