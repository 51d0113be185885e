package ingestcmder

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gynocare-chat/internal/faq"
)

var _ = Describe("Ingest Command", func() {
	It("requires --file", func() {
		cmd := NewIngestCmd()
		cmd.SetArgs([]string{})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		err := cmd.Execute()

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("file"))
	})

	It("registers its flags", func() {
		cmd := NewIngestCmd()
		for _, name := range []string{"file", "sheet", "force", "json"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
		Expect(cmd.Flags().Lookup("force").DefValue).To(Equal("false"))
	})

	Describe("printResult", func() {
		var out *bytes.Buffer

		BeforeEach(func() {
			out = &bytes.Buffer{}
		})

		It("summarizes an ingestion", func() {
			Expect(printResult(out, &faq.IngestResult{
				Collection:  "gynocare_faq",
				Questions:   12,
				Answers:     30,
				PointsCount: 12,
			}, false)).To(Succeed())

			Expect(out.String()).To(ContainSubstring("Ingested 12 questions (30 answers)"))
			Expect(out.String()).To(ContainSubstring(`"gynocare_faq"`))
		})

		It("points at --force when the collection was kept", func() {
			Expect(printResult(out, &faq.IngestResult{
				Collection:  "gynocare_faq",
				Skipped:     true,
				PointsCount: 12,
			}, false)).To(Succeed())

			Expect(out.String()).To(ContainSubstring("already exists with 12 points"))
			Expect(out.String()).To(ContainSubstring("--force"))
		})

		It("prints JSON on request", func() {
			Expect(printResult(out, &faq.IngestResult{Collection: "gynocare_faq", Questions: 2}, true)).To(Succeed())

			var decoded map[string]any
			Expect(json.Unmarshal(out.Bytes(), &decoded)).To(Succeed())
			Expect(decoded).To(HaveKeyWithValue("collection", "gynocare_faq"))
			Expect(decoded).To(HaveKeyWithValue("questions", BeNumerically("==", 2)))
		})
	})
})
