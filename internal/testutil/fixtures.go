package testutil

import (
	"crypto/rand"
	"crypto/rsa"

	"github.com/udisondev/npsgo/internal/constants"
)

// CanonicalLoginRequestHex: захваченный LOGIN_REQUEST (versioned header, 327 байт).
const CanonicalLoginRequestHex = "0501014401010000000001440028663433336338383364333363613630636661" +
	"3866653633656365316363666430313431386433616200000100344139" +
	"4544323635334442303242334542383830343730414231463745433030" +
	"304231423331433635354445314431363131443744313834373943353034" +
	"3236433236414437303236454435334438464144394437373945453643" +
	"413138353846454645463039343144333530394545313444304136384342" +
	"334534393532423135334530463736464438323037313139343338463537" +
	"4439303341363441373842353137343535444238364645464530433334" +
	"3845383141314632393245343031454437354532384237333043464237" +
	"38303935463742383645423833364344373041373346324546394344" +
	"3030303037314242304546413246383746373200043231373646454131433139"

// Fixtures содержит предварительно сгенерированные тестовые данные
// для избежания дублирования в тестах.
var Fixtures = struct {
	// RSA ключ (генерируется один раз при init)
	RSAKey *rsa.PrivateKey

	// Ожидаемые значения для CanonicalLoginRequestHex
	CanonicalSize          int
	CanonicalPayloadSize   int
	CanonicalChecksum      uint32
	CanonicalTicketHex     string
	CanonicalTicket        string
	CanonicalRemainingHex  string
	CanonicalSessionKeyHex string

	// Сессионный ключ для blob-тестов (32 байта, все байты различны)
	SessionKey []byte
	Expiry     uint32
}{
	CanonicalSize:          327,
	CanonicalPayloadSize:   312,
	CanonicalChecksum:      0x31433139,
	CanonicalTicketHex:     "66343333633838336433336361363063666138666536336563653163636664303134313864336162",
	CanonicalTicket:        "f433c883d33ca60cfa8fe63ece1ccfd01418d3ab",
	CanonicalRemainingHex:  "00043231373646454131",
	CanonicalSessionKeyHex: "4A9ED2653DB02B3EB880470AB1F7EC000B1B31C655DE1D1611D7D18479C50426C26AD7026ED53D8FAD9D779EE6CA1858FEFEF0941D3509EE14D0A68CB3E4952B153E0F76FD8207119438F57D903A64A78B517455DB86FEFE0C348E81A1F292E401ED75E28B730CFB78095F7B86EB836CD70A73F2EF9CD000071BB0EFA2F87F72",
	SessionKey: []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
		0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18,
		0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E, 0x1F, 0x20,
	},
	Expiry: 0x5F5E1000,
}

func init() {
	var err error

	// Генерируем RSA-1024 ключ
	Fixtures.RSAKey, err = rsa.GenerateKey(rand.Reader, constants.RSAKeyBits)
	if err != nil {
		panic("failed to generate RSA-1024 key: " + err.Error())
	}
}
