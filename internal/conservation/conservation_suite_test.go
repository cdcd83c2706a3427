package conservation_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConservation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Conservation Suite")
}
