package backend

// Stable entry point names, one per (operation, element type) pair.
const (
	SymIsamax = "cublasIsamax_v2"
	SymIdamax = "cublasIdamax_v2"
	SymIcamax = "cublasIcamax_v2"
	SymIzamax = "cublasIzamax_v2"

	SymIsamin = "cublasIsamin_v2"
	SymIdamin = "cublasIdamin_v2"
	SymIcamin = "cublasIcamin_v2"
	SymIzamin = "cublasIzamin_v2"

	SymSasum  = "cublasSasum_v2"
	SymDasum  = "cublasDasum_v2"
	SymScasum = "cublasScasum_v2"
	SymDzasum = "cublasDzasum_v2"

	SymSaxpy = "cublasSaxpy_v2"
	SymDaxpy = "cublasDaxpy_v2"
	SymCaxpy = "cublasCaxpy_v2"
	SymZaxpy = "cublasZaxpy_v2"

	SymScopy = "cublasScopy_v2"
	SymDcopy = "cublasDcopy_v2"
	SymCcopy = "cublasCcopy_v2"
	SymZcopy = "cublasZcopy_v2"

	SymSdot  = "cublasSdot_v2"
	SymDdot  = "cublasDdot_v2"
	SymCdotu = "cublasCdotu_v2"
	SymCdotc = "cublasCdotc_v2"
	SymZdotu = "cublasZdotu_v2"
	SymZdotc = "cublasZdotc_v2"
)

// Symbols lists every entry point name.
var Symbols = []string{
	SymIsamax, SymIdamax, SymIcamax, SymIzamax,
	SymIsamin, SymIdamin, SymIcamin, SymIzamin,
	SymSasum, SymDasum, SymScasum, SymDzasum,
	SymSaxpy, SymDaxpy, SymCaxpy, SymZaxpy,
	SymScopy, SymDcopy, SymCcopy, SymZcopy,
	SymSdot, SymDdot, SymCdotu, SymCdotc, SymZdotu, SymZdotc,
}
