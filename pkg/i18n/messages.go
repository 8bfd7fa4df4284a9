package i18n

import (
	"fmt"
	"os"
	"strings"
)

const (
	// HTTP API
	MsgVerifyKey      = "verifyKey"
	MsgEmptyKey       = "emptyKey"
	MsgErrorKey       = "errorKey"
	MsgVerifyCode     = "verifyCode"
	MsgEmptySecret    = "emptySecret"
	MsgEmptyCode      = "emptyCode"
	MsgErrorCode      = "errorCode"
	MsgInvalidCode    = "invalidCode"
	MsgInvalidBody    = "invalidBody"
	MsgInternalError  = "internalError"
	MsgNotFound       = "notFound"
	MsgMethodNotAllow = "methodNotAllowed"

	// CLI
	MsgCliShort           = "cliShort"
	MsgCliLong            = "cliLong"
	MsgCmdServeShort      = "cmdServeShort"
	MsgCmdKeygenShort     = "cmdKeygenShort"
	MsgCmdCodeShort       = "cmdCodeShort"
	MsgCmdVerifyShort     = "cmdVerifyShort"
	MsgCmdVersionShort    = "cmdVersionShort"
	MsgCliFlagConfig      = "cliFlagConfig"
	MsgCliFlagAddr        = "cliFlagAddr"
	MsgCliFlagAlgorithm   = "cliFlagAlgorithm"
	MsgCliFlagInterval    = "cliFlagInterval"
	MsgCliFlagLength      = "cliFlagLength"
	MsgCliFlagSteps       = "cliFlagSteps"
	MsgCliFlagT0          = "cliFlagT0"
	MsgCliFlagSecret      = "cliFlagSecret"
	MsgCliFlagHex         = "cliFlagHex"
	MsgCliFlagURL         = "cliFlagURL"
	MsgCliFlagAt          = "cliFlagAt"
	MsgCliFlagLabel       = "cliFlagLabel"
	MsgCliFlagIssuer      = "cliFlagIssuer"
	MsgCliFlagSize        = "cliFlagSize"
	MsgCliFlagOut         = "cliFlagOut"
	MsgCliFlagForce       = "cliFlagForce"
	MsgCliFlagQRMode      = "cliFlagQRMode"
	MsgCliFlagQRInverse   = "cliFlagQRInverse"
	MsgCliFlagShowHex     = "cliFlagShowHex"
	MsgCliFlagLogLevel    = "cliFlagLogLevel"
	MsgCliFlagLogFile     = "cliFlagLogFile"
	MsgCliFlagHost        = "cliFlagHost"
	MsgCliNeedSecret      = "cliNeedSecret"
	MsgCliSecretConflict  = "cliSecretConflict"
	MsgCliVerifyNeedCode  = "cliVerifyNeedCode"
	MsgCliVerifyOK        = "cliVerifyOK"
	MsgCliVerifyFailed    = "cliVerifyFailed"
	MsgCliFileExists      = "cliFileExists"
	MsgCliSecretWritten   = "cliSecretWritten"
	MsgCliSetupURL        = "cliSetupURL"
	MsgCliSetupSecret     = "cliSetupSecret"
	MsgCliSetupHex        = "cliSetupHex"
	MsgCliQRFail          = "cliQRFail"
	MsgCliServerListening = "cliServerListening"
	MsgCliServerStopped   = "cliServerStopped"
)

var translations = map[string]map[string]string{
	MsgVerifyKey: {
		"en": "Verifying key %s",
		"zh": "正在校验 key %s",
		"pt": "Verificando key %s",
	},
	MsgEmptyKey: {
		"en": "Required parameter key is empty",
		"zh": "必填参数 key 为空",
		"pt": "Parametro necessario key se encontra vazio",
	},
	MsgErrorKey: {
		"en": "Failed to generate key %s",
		"zh": "生成 key %s 失败",
		"pt": "Erro ao gerar key %s",
	},
	MsgVerifyCode: {
		"en": "Verifying code",
		"zh": "正在校验验证码",
		"pt": "Verificando code",
	},
	MsgEmptySecret: {
		"en": "Required parameter secret is empty",
		"zh": "必填参数 secret 为空",
		"pt": "Parametro necessario secret se encontra vazio",
	},
	MsgEmptyCode: {
		"en": "Required parameter code is empty",
		"zh": "必填参数 code 为空",
		"pt": "Parametro necessario code se encontra vazio",
	},
	MsgErrorCode: {
		"en": "Failed to verify code",
		"zh": "验证码校验失败",
		"pt": "Erro ao verificar code",
	},
	MsgInvalidCode: {
		"en": "Code is not valid",
		"zh": "验证码不匹配",
		"pt": "Codigo nao e valido",
	},
	MsgInvalidBody: {
		"en": "Invalid request body",
		"zh": "请求体格式错误",
		"pt": "Corpo da requisicao invalido",
	},
	MsgInternalError: {
		"en": "Internal server error",
		"zh": "服务器内部错误",
		"pt": "Erro interno do servidor",
	},
	MsgNotFound: {
		"en": "Endpoint not found",
		"zh": "接口不存在",
		"pt": "Endpoint nao encontrado",
	},
	MsgMethodNotAllow: {
		"en": "Method not allowed",
		"zh": "不支持的请求方法",
		"pt": "Metodo nao permitido",
	},

	MsgCliShort: {
		"en": "TOTP (RFC 6238) key generation and verification",
		"zh": "TOTP (RFC 6238) 密钥生成与验证",
		"pt": "Geracao e verificacao de chaves TOTP (RFC 6238)",
	},
	MsgCliLong: {
		"en": "gtotp generates shared secrets, prints otpauth:// URLs and QR codes for authenticator apps, computes and verifies codes, and serves the same operations over HTTP.",
		"zh": "gtotp 生成共享密钥，输出 otpauth:// URL 与二维码，计算并验证验证码，也可以通过 HTTP 提供相同的功能。",
		"pt": "gtotp gera segredos, imprime URLs otpauth:// e QR codes para aplicativos autenticadores, calcula e verifica codigos e oferece as mesmas operacoes via HTTP.",
	},
	MsgCmdServeShort: {
		"en": "Serve the generate/verify HTTP API",
		"zh": "启动生成/验证 HTTP 服务",
		"pt": "Inicia a API HTTP de geracao/verificacao",
	},
	MsgCmdKeygenShort: {
		"en": "Generate a new shared secret",
		"zh": "生成新的共享密钥",
		"pt": "Gera um novo segredo",
	},
	MsgCmdCodeShort: {
		"en": "Print the current code for a secret",
		"zh": "输出密钥当前的验证码",
		"pt": "Imprime o codigo atual de um segredo",
	},
	MsgCmdVerifyShort: {
		"en": "Verify a code against a secret",
		"zh": "校验验证码",
		"pt": "Verifica um codigo",
	},
	MsgCmdVersionShort: {
		"en": "Show version information",
		"zh": "显示版本信息",
		"pt": "Mostra a versao",
	},
	MsgCliFlagConfig: {
		"en": "Config file (yaml, json or toml)",
		"zh": "配置文件 (yaml、json 或 toml)",
	},
	MsgCliFlagAddr: {
		"en": "Listen address",
		"zh": "监听地址",
	},
	MsgCliFlagAlgorithm: {
		"en": "HMAC algorithm: SHA1, SHA256 or SHA512",
		"zh": "HMAC 算法: SHA1、SHA256 或 SHA512",
	},
	MsgCliFlagInterval: {
		"en": "Time step in seconds",
		"zh": "时间步长（秒）",
	},
	MsgCliFlagLength: {
		"en": "Number of digits (1-8)",
		"zh": "验证码位数 (1-8)",
	},
	MsgCliFlagSteps: {
		"en": "Past time steps accepted during verification",
		"zh": "验证时额外接受的过去时间步数",
	},
	MsgCliFlagT0: {
		"en": "Time origin in Unix seconds",
		"zh": "起始时间（Unix 秒）",
	},
	MsgCliFlagSecret: {
		"en": "Base32 encoded secret",
		"zh": "Base32 编码的密钥",
	},
	MsgCliFlagHex: {
		"en": "Hex encoded secret",
		"zh": "十六进制编码的密钥",
	},
	MsgCliFlagURL: {
		"en": "otpauth:// provisioning URL",
		"zh": "otpauth:// 配置 URL",
	},
	MsgCliFlagAt: {
		"en": "Unix time to use instead of now",
		"zh": "使用指定的 Unix 时间代替当前时间",
	},
	MsgCliFlagLabel: {
		"en": "Account label in the otpauth:// URL",
		"zh": "otpauth:// URL 中的账户 label",
	},
	MsgCliFlagIssuer: {
		"en": "Issuer in the otpauth:// URL",
		"zh": "otpauth:// URL 中的 issuer",
	},
	MsgCliFlagSize: {
		"en": "Secret size in bytes: 20, 32 or 64",
		"zh": "密钥长度（字节）: 20、32 或 64",
	},
	MsgCliFlagOut: {
		"en": "Write the Base32 secret to this file",
		"zh": "将 Base32 密钥写入此文件",
	},
	MsgCliFlagForce: {
		"en": "Overwrite the output file if it exists",
		"zh": "覆盖已存在的输出文件",
	},
	MsgCliFlagQRMode: {
		"en": "QR code output: ansi, utf8 or none",
		"zh": "二维码输出模式: ansi、utf8 或 none",
	},
	MsgCliFlagQRInverse: {
		"en": "Invert QR code colors",
		"zh": "反色显示二维码",
	},
	MsgCliFlagShowHex: {
		"en": "Also print the secret as hex",
		"zh": "同时输出十六进制密钥",
	},
	MsgCliFlagLogLevel: {
		"en": "Log level: debug, info, warn or error",
		"zh": "日志级别: debug、info、warn 或 error",
	},
	MsgCliFlagLogFile: {
		"en": "Also append logs to this file",
		"zh": "同时将日志追加到此文件",
	},
	MsgCliFlagHost: {
		"en": "Host appended to the label as label@host",
		"zh": "以 label@host 形式附加到 label 的主机名",
	},
	MsgCliNeedSecret: {
		"en": "one of --secret, --hex or --url is required",
		"zh": "必须指定 --secret、--hex 或 --url 之一",
	},
	MsgCliSecretConflict: {
		"en": "--secret, --hex and --url are mutually exclusive",
		"zh": "--secret、--hex 与 --url 不能同时使用",
	},
	MsgCliVerifyNeedCode: {
		"en": "a code is required",
		"zh": "必须提供验证码",
	},
	MsgCliVerifyOK: {
		"en": "Code accepted (%d step(s) behind, interval %d)",
		"zh": "验证码有效（落后 %d 个步长，时间片 %d）",
		"pt": "Codigo aceito (%d passo(s) atras, intervalo %d)",
	},
	MsgCliVerifyFailed: {
		"en": "code is not valid",
		"zh": "验证码不匹配",
		"pt": "codigo nao e valido",
	},
	MsgCliFileExists: {
		"en": "%s already exists, use --force to overwrite",
		"zh": "%s 已存在，使用 --force 覆盖",
	},
	MsgCliSecretWritten: {
		"en": "Secret written to %s",
		"zh": "密钥已写入 %s",
	},
	MsgCliSetupURL: {
		"en": "otpauth URL: %s",
		"zh": "otpauth URL: %s",
	},
	MsgCliSetupSecret: {
		"en": "Your new secret key is: %s",
		"zh": "新的密钥为: %s",
		"pt": "Seu novo segredo e: %s",
	},
	MsgCliSetupHex: {
		"en": "Hex: %s",
		"zh": "十六进制: %s",
	},
	MsgCliQRFail: {
		"en": "Failed to render QR code: %v",
		"zh": "二维码生成失败: %v",
	},
	MsgCliServerListening: {
		"en": "listening on %s",
		"zh": "正在监听 %s",
	},
	MsgCliServerStopped: {
		"en": "server stopped",
		"zh": "服务已停止",
	},
}

// Msgf returns the formatted translation.
func Msgf(key string, args ...any) string {
	format := Resolve(key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Resolve returns the translation for key, falling back to en or key itself.
func Resolve(key string) string {
	return ResolveLang(key, DetectLang())
}

// ResolveLang is Resolve for an explicit language, as taken from an
// Accept-Language header.
func ResolveLang(key, lang string) string {
	if text := translations[key][normalizeLocale(lang)]; text != "" {
		return text
	}
	if text := translations[key]["en"]; text != "" {
		return text
	}
	return key
}

// DetectLang reads locale env vars and normalizes to "en" / "zh" / "pt".
func DetectLang() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			return normalizeLocale(v)
		}
	}
	return "en"
}

func normalizeLocale(locale string) string {
	lower := strings.ToLower(strings.TrimSpace(locale))
	if idx := strings.IndexAny(lower, "._@,;"); idx >= 0 {
		lower = lower[:idx]
	}
	switch {
	case strings.HasPrefix(lower, "zh"):
		return "zh"
	case strings.HasPrefix(lower, "pt"):
		return "pt"
	default:
		return "en"
	}
}
