package native

import "fmt"

// SDK error codes.
const (
	CommonInvalidParam1                     ErrorCode = 100
	CommonInvalidParam2                     ErrorCode = 101
	CommonInvalidParam3                     ErrorCode = 102
	CommonInvalidParam4                     ErrorCode = 103
	CommonInvalidParam5                     ErrorCode = 104
	CommonInvalidParam6                     ErrorCode = 105
	CommonInvalidParam7                     ErrorCode = 106
	CommonInvalidParam8                     ErrorCode = 107
	CommonInvalidParam9                     ErrorCode = 108
	CommonInvalidParam10                    ErrorCode = 109
	CommonInvalidParam11                    ErrorCode = 110
	CommonInvalidParam12                    ErrorCode = 111
	CommonInvalidState                      ErrorCode = 112
	CommonInvalidStructure                  ErrorCode = 113
	CommonIOError                           ErrorCode = 114
	WalletInvalidHandle                     ErrorCode = 200
	WalletUnknownTypeError                  ErrorCode = 201
	WalletTypeAlreadyRegisteredError        ErrorCode = 202
	WalletAlreadyExistsError                ErrorCode = 203
	WalletNotFoundError                     ErrorCode = 204
	WalletIncompatiblePoolError             ErrorCode = 205
	WalletAlreadyOpenedError                ErrorCode = 206
	WalletAccessFailed                      ErrorCode = 207
	WalletInputError                        ErrorCode = 208
	WalletDecodingError                     ErrorCode = 209
	WalletStorageError                      ErrorCode = 210
	WalletEncryptionError                   ErrorCode = 211
	WalletItemNotFound                      ErrorCode = 212
	WalletItemAlreadyExists                 ErrorCode = 213
	WalletQueryError                        ErrorCode = 214
	PoolLedgerNotCreatedError               ErrorCode = 300
	PoolLedgerInvalidPoolHandle             ErrorCode = 301
	PoolLedgerTerminated                    ErrorCode = 302
	LedgerNoConsensusError                  ErrorCode = 303
	LedgerInvalidTransaction                ErrorCode = 304
	LedgerSecurityError                     ErrorCode = 305
	PoolLedgerConfigAlreadyExistsError      ErrorCode = 306
	PoolLedgerTimeout                       ErrorCode = 307
	PoolIncompatibleProtocolVersion         ErrorCode = 308
	AnoncredsRevocationRegistryFullError    ErrorCode = 400
	AnoncredsInvalidUserRevocID             ErrorCode = 401
	AnoncredsMasterSecretDuplicateNameError ErrorCode = 404
	AnoncredsProofRejected                  ErrorCode = 405
	AnoncredsCredentialRevoked              ErrorCode = 406
	AnoncredsCredDefAlreadyExistsError      ErrorCode = 407
	UnknownCryptoTypeError                  ErrorCode = 500
	DidAlreadyExistsError                   ErrorCode = 600
	PaymentUnknownMethodError               ErrorCode = 700
	PaymentIncompatibleMethodsError         ErrorCode = 701
	PaymentInsufficientFundsError           ErrorCode = 702
)

var codeNames = map[ErrorCode]string{
	Success:                          "Success",
	CommonInvalidState:                      "CommonInvalidState",
	CommonInvalidStructure:                  "CommonInvalidStructure",
	CommonIOError:                           "CommonIOError",
	WalletInvalidHandle:                     "WalletInvalidHandle",
	WalletUnknownTypeError:                  "WalletUnknownTypeError",
	WalletTypeAlreadyRegisteredError:        "WalletTypeAlreadyRegisteredError",
	WalletAlreadyExistsError:                "WalletAlreadyExistsError",
	WalletNotFoundError:                     "WalletNotFoundError",
	WalletIncompatiblePoolError:             "WalletIncompatiblePoolError",
	WalletAlreadyOpenedError:                "WalletAlreadyOpenedError",
	WalletAccessFailed:                      "WalletAccessFailed",
	WalletInputError:                        "WalletInputError",
	WalletDecodingError:                     "WalletDecodingError",
	WalletStorageError:                      "WalletStorageError",
	WalletEncryptionError:                   "WalletEncryptionError",
	WalletItemNotFound:                      "WalletItemNotFound",
	WalletItemAlreadyExists:                 "WalletItemAlreadyExists",
	WalletQueryError:                        "WalletQueryError",
	PoolLedgerNotCreatedError:               "PoolLedgerNotCreatedError",
	PoolLedgerInvalidPoolHandle:             "PoolLedgerInvalidPoolHandle",
	PoolLedgerTerminated:                    "PoolLedgerTerminated",
	LedgerNoConsensusError:                  "LedgerNoConsensusError",
	LedgerInvalidTransaction:                "LedgerInvalidTransaction",
	LedgerSecurityError:                     "LedgerSecurityError",
	PoolLedgerConfigAlreadyExistsError:      "PoolLedgerConfigAlreadyExistsError",
	PoolLedgerTimeout:                       "PoolLedgerTimeout",
	PoolIncompatibleProtocolVersion:         "PoolIncompatibleProtocolVersion",
	AnoncredsRevocationRegistryFullError:    "AnoncredsRevocationRegistryFullError",
	AnoncredsInvalidUserRevocID:             "AnoncredsInvalidUserRevocId",
	AnoncredsMasterSecretDuplicateNameError: "AnoncredsMasterSecretDuplicateNameError",
	AnoncredsProofRejected:                  "AnoncredsProofRejected",
	AnoncredsCredentialRevoked:              "AnoncredsCredentialRevoked",
	AnoncredsCredDefAlreadyExistsError:      "AnoncredsCredDefAlreadyExistsError",
	UnknownCryptoTypeError:                  "UnknownCryptoTypeError",
	DidAlreadyExistsError:                   "DidAlreadyExistsError",
	PaymentUnknownMethodError:               "PaymentUnknownMethodError",
	PaymentIncompatibleMethodsError:         "PaymentIncompatibleMethodsError",
	PaymentInsufficientFundsError:           "PaymentInsufficientFundsError",
}

// CodeName returns the SDK name of an error code, e.g. "WalletItemNotFound".
func CodeName(code ErrorCode) string {
	if code >= CommonInvalidParam1 && code <= CommonInvalidParam12 {
		return fmt.Sprintf("CommonInvalidParam%d", code-CommonInvalidParam1+1)
	}
	if name, ok := codeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("UnknownError(%d)", code)
}
