/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command ksanbench drives the timing harness for the FSV and IUT
// sanitizable signature constructions: a micro-benchmark of each primitive
// block's operations (--op-time), and two sweeps over block counts at a
// fixed sanitizer count, at toy and 2048-bit security (--perf, --perf-sec) whose results
// are written as pgfplots coordinate blocks under data/.
package main

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/be-ys/ksan/blocks/bg"
	"github.com/be-ys/ksan/blocks/bls"
	"github.com/be-ys/ksan/blocks/chash"
	"github.com/be-ys/ksan/blocks/eqs"
	"github.com/be-ys/ksan/blocks/pke"
	"github.com/be-ys/ksan/blocks/sig"
	"github.com/be-ys/ksan/blocks/vrs"
	"github.com/be-ys/ksan/ksan/fsv"
	"github.com/be-ys/ksan/ksan/iut"
	"github.com/drand/kyber"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var dst = []byte("k-SAN test")

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	app := &cli.App{
		Name:  "ksanbench",
		Usage: "time the FSV and IUT k-sanitizable signature constructions",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "num-exec", Value: 2000, Usage: "number of measurement iterations"},
			&cli.BoolFlag{Name: "perf", Usage: "run the timing sweep at toy parameters, write data/perf.txt"},
			&cli.BoolFlag{Name: "perf-sec", Usage: "run the timing sweep at 2048-bit security, write data/perf_sec.txt"},
			&cli.BoolFlag{Name: "op-time", Usage: "run the micro-benchmark of primitive block operations"},
		},
		Action: func(c *cli.Context) error {
			numExec := c.Int("num-exec")
			logger.Info("ksanbench starting",
				zap.Int("num_exec", numExec),
				zap.Bool("perf", c.Bool("perf")),
				zap.Bool("perf_sec", c.Bool("perf-sec")),
				zap.Bool("op_time", c.Bool("op-time")),
			)

			if c.Bool("op-time") {
				if err := runOpTime(logger, numExec); err != nil {
					return errors.Wrap(err, "op-time")
				}
			}
			if c.Bool("perf") {
				if err := runPerf(logger, numExec); err != nil {
					return errors.Wrap(err, "perf")
				}
			}
			if c.Bool("perf-sec") {
				if err := runPerfSec(logger, numExec); err != nil {
					return errors.Wrap(err, "perf-sec")
				}
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("ksanbench failed", zap.Error(err))
		os.Exit(1)
	}
}

func randomString(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[mrand.Intn(len(alphabet))]
	}
	return string(b)
}

func timeit(f func()) time.Duration {
	start := time.Now()
	f()
	return time.Since(start)
}

func average(samples []time.Duration) int64 {
	if len(samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range samples {
		sum += d
	}
	avg := int64(sum.Microseconds()) / int64(len(samples))
	if avg == 0 {
		avg = 1
	}
	return avg
}

// runOpTime times each primitive block's operations in isolation, the way
// the harness this was distilled from profiles group/pairing/modular-
// exponentiation cost before attributing time to a full construction.
func runOpTime(logger *zap.Logger, numExec int) error {
	chashPP, err := chash.Setup(512)
	if err != nil {
		return errors.Wrap(err, "chash setup")
	}
	skCH, pkCH, err := chash.KeyGen(chashPP)
	if err != nil {
		return errors.Wrap(err, "chash keygen")
	}

	skSig, pkSig, err := sig.KeyGen()
	if err != nil {
		return errors.Wrap(err, "sig keygen")
	}

	pkePub, pkeSec, err := pke.GenerateKeys(520)
	if err != nil {
		return errors.Wrap(err, "pke keygen")
	}

	ctx := bg.Setup(4, dst)
	_, blsSK2, blsPK1, blsPK2 := bls.KeyGen(ctx)

	skEQS, pkEQS := eqs.KeyGen(ctx, 3)

	vrsPP, err := vrs.Setup(512)
	if err != nil {
		return errors.Wrap(err, "vrs setup")
	}
	skVRS, pkVRS, err := vrs.KeyGen(vrsPP)
	if err != nil {
		return errors.Wrap(err, "vrs keygen")
	}
	ring := []*big.Int{pkVRS}

	var hashT, checkT, adaptT []time.Duration
	var signT, verifyT []time.Duration
	var encT, decT, mulT []time.Duration
	var blsSignT, blsVerifyT []time.Duration
	var eqsSignT, eqsVerifyT, eqsChgRepT []time.Duration
	var vrsSignT, vrsVerifyT, vrsProveT, vrsJudgeT []time.Duration

	for i := 0; i < numExec; i++ {
		mVal, err := rand.Int(rand.Reader, chashPP.Q)
		if err != nil {
			return errors.Wrap(err, "sample chash message")
		}
		var h, r *big.Int
		hashT = append(hashT, timeit(func() {
			h, r, _ = chash.Hash(chashPP, pkCH, mVal)
		}))
		checkT = append(checkT, timeit(func() {
			chash.Check(chashPP, pkCH, mVal, r, h)
		}))
		adaptT = append(adaptT, timeit(func() {
			chash.Adapt(chashPP, skCH, mVal, r, mVal)
		}))

		msg := []byte(randomString(50))
		var s []byte
		signT = append(signT, timeit(func() {
			s, _ = sig.Sign(skSig, msg)
		}))
		verifyT = append(verifyT, timeit(func() {
			sig.Verify(pkSig, msg, s)
		}))

		ptxt, err := rand.Int(rand.Reader, pkePub.N)
		if err != nil {
			return errors.Wrap(err, "sample plaintext")
		}
		var c *big.Int
		encT = append(encT, timeit(func() {
			c, _ = pke.Encrypt(pkePub, ptxt)
		}))
		decT = append(decT, timeit(func() {
			pke.Decrypt(pkePub, pkeSec, c)
		}))
		scalar, err := rand.Int(rand.Reader, pkePub.N)
		if err != nil {
			return errors.Wrap(err, "sample scalar")
		}
		mulT = append(mulT, timeit(func() {
			pke.Multiply(pkePub, c, scalar)
		}))

		blsMsg := []byte(randomString(20))
		var blsSig kyber.Point
		blsSignT = append(blsSignT, timeit(func() {
			blsSig = bls.Sign(ctx, blsSK2, blsMsg)
		}))
		blsVerifyT = append(blsVerifyT, timeit(func() {
			bls.Verify(ctx, blsPK1, blsPK2, blsMsg, blsSig)
		}))

		m := make([]kyber.Point, 3)
		for j := range m {
			m[j] = ctx.Suite.G1().Point().Mul(ctx.RandomScalar(), ctx.P1)
		}
		var eqsSig *eqs.Signature
		eqsSignT = append(eqsSignT, timeit(func() {
			eqsSig, _ = eqs.Sign(ctx, skEQS, m)
		}))
		eqsVerifyT = append(eqsVerifyT, timeit(func() {
			eqs.Verify(ctx, pkEQS, m, eqsSig)
		}))
		mu := ctx.RandomScalar()
		eqsChgRepT = append(eqsChgRepT, timeit(func() {
			eqs.ChgRep(ctx, m, eqsSig, mu)
		}))

		vrsMsg := randomString(30)
		var vrsSig *vrs.Signature
		vrsSignT = append(vrsSignT, timeit(func() {
			vrsSig, _ = vrs.Sign(vrsPP, skVRS, ring, vrsMsg)
		}))
		vrsVerifyT = append(vrsVerifyT, timeit(func() {
			vrs.Verify(vrsPP, ring, vrsMsg, vrsSig)
		}))
		var vrsProof *vrs.Proof
		vrsProveT = append(vrsProveT, timeit(func() {
			vrsProof, _ = vrs.Prove(vrsPP, vrsMsg, vrsSig, pkVRS, skVRS)
		}))
		vrsJudgeT = append(vrsJudgeT, timeit(func() {
			vrs.Judge(vrsPP, vrsMsg, vrsSig, pkVRS, vrsProof)
		}))
	}

	logger.Info("op-time results (microseconds, averaged)",
		zap.Int64("chash_hash", average(hashT)),
		zap.Int64("chash_check", average(checkT)),
		zap.Int64("chash_adapt", average(adaptT)),
		zap.Int64("sig_sign", average(signT)),
		zap.Int64("sig_verify", average(verifyT)),
		zap.Int64("pke_encrypt", average(encT)),
		zap.Int64("pke_decrypt", average(decT)),
		zap.Int64("pke_multiply", average(mulT)),
		zap.Int64("bls_sign", average(blsSignT)),
		zap.Int64("bls_verify", average(blsVerifyT)),
		zap.Int64("eqs_sign", average(eqsSignT)),
		zap.Int64("eqs_verify", average(eqsVerifyT)),
		zap.Int64("eqs_chgrep", average(eqsChgRepT)),
		zap.Int64("vrs_sign", average(vrsSignT)),
		zap.Int64("vrs_verify", average(vrsVerifyT)),
		zap.Int64("vrs_prove", average(vrsProveT)),
		zap.Int64("vrs_judge", average(vrsJudgeT)),
	)

	return nil
}

// runPerf sweeps block counts at toy (512-bit) security and
// writes data/perf.txt.
func runPerf(logger *zap.Logger, numExec int) error {
	return sweep(logger, numExec, 512, 520, []int{3, 6, 9, 12, 15}, 9, 3, "data/perf.txt")
}

// runPerfSec sweeps block counts at 2048-bit security and writes
// data/perf_sec.txt.
func runPerfSec(logger *zap.Logger, numExec int) error {
	return sweep(logger, numExec, 2048, 2056, []int{5, 7, 9, 11, 13, 15}, 5, 5, "data/perf_sec.txt")
}

func sweep(logger *zap.Logger, numExec, bitsHash, bitsPKE int, sizes []int, fixedK, numAdm int, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	fsvPP, err := fsv.Setup(fsv.SecParams{BitsCHashVRS: bitsHash, BitsPKE: bitsPKE})
	if err != nil {
		return errors.Wrap(err, "fsv setup")
	}

	var fsvSign, fsvSan, fsvVer, fsvJdg strings.Builder
	for _, n := range sizes {
		sigT, sanT, verT, jdgT, err := measureFSV(fsvPP, n, fixedK, numExec, numAdm)
		if err != nil {
			return errors.Wrap(err, "measure fsv")
		}
		fmt.Fprintf(&fsvSign, "(%d, %d)", n, sigT)
		fmt.Fprintf(&fsvSan, "(%d, %d)", n, sanT)
		fmt.Fprintf(&fsvVer, "(%d, %d)", n, verT)
		fmt.Fprintf(&fsvJdg, "(%d, %d)", n, jdgT)
		logger.Info("fsv sweep point", zap.Int("n", n), zap.Int("k", fixedK))
	}

	iutPP, err := iut.Setup(iut.SecParams{BitsVRS: bitsHash, BitsPKE: bitsPKE, N: 1, DST: dst})
	if err != nil {
		return errors.Wrap(err, "iut setup")
	}

	var iutSign, iutSan, iutVer, iutPrf, iutJdg strings.Builder
	for _, n := range sizes {
		iutPP.Sec.N = uint32(n)
		iutPP.BG = bg.Setup(uint32(n)+1, dst)

		sigT, sanT, verT, prfT, jdgT, err := measureIUT(iutPP, n, fixedK, numExec, numAdm)
		if err != nil {
			return errors.Wrap(err, "measure iut")
		}
		fmt.Fprintf(&iutSign, "(%d, %d)", n, sigT)
		fmt.Fprintf(&iutSan, "(%d, %d)", n, sanT)
		fmt.Fprintf(&iutVer, "(%d, %d)", n, verT)
		fmt.Fprintf(&iutPrf, "(%d, %d)", n, prfT)
		fmt.Fprintf(&iutJdg, "(%d, %d)", n, jdgT)
		logger.Info("iut sweep point", zap.Int("n", n), zap.Int("k", fixedK))
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer out.Close()

	writePlot(out, "FSV_N", []labeledCoords{
		{"Sign", fsvSign.String()},
		{"Sanitize", fsvSan.String()},
		{"Verify", fsvVer.String()},
		{"Judge", fsvJdg.String()},
	})
	writePlot(out, "IUT_N", []labeledCoords{
		{"Sign", iutSign.String()},
		{"Sanitize", iutSan.String()},
		{"Verify", iutVer.String()},
		{"Prove", iutPrf.String()},
		{"Judge", iutJdg.String()},
	})

	return nil
}

type labeledCoords struct {
	label  string
	coords string
}

func writePlot(out *os.File, section string, series []labeledCoords) {
	fmt.Fprintf(out, "%s:\n", section)
	for _, s := range series {
		fmt.Fprintf(out, "\\addplot coordinates {%s};\n", s.coords)
		fmt.Fprintf(out, "%%\\addlegendentry{%s}\n", s.label)
	}
	fmt.Fprintln(out)
}

func measureFSV(pp *fsv.PublicParams, n, k, numExec, numAdm int) (sigT, sanT, verT, jdgT int64, err error) {
	skS, pkS, err := fsv.KeyGenSigner(pp)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	m := make([]string, n)
	for j := range m {
		m[j] = randomString(10)
	}

	adm := make([][]bool, k)
	sanPKs := make([]*fsv.SanitizerPublicKey, k)
	var skZ *fsv.SanitizerSecretKey
	for i := 0; i < k; i++ {
		adm[i] = make([]bool, n)
		for j := 0; j < numAdm && j < n; j++ {
			adm[i][j] = true
		}
		skZi, pkZ, err := fsv.KeyGenSanitizer(pp)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		sanPKs[i] = pkZ
		if i == 0 {
			skZ = skZi
		}
	}

	var signSamples, sanSamples, verSamples, jdgSamples []time.Duration
	for x := 0; x < numExec; x++ {
		var s *fsv.Signature
		signSamples = append(signSamples, timeit(func() {
			s, err = fsv.Sign(pp, skS, pkS, sanPKs, m, adm)
		}))
		if err != nil {
			return 0, 0, 0, 0, err
		}

		for j := 0; j < numAdm && j < n; j++ {
			ns := randomString(10)
			modif := []fsv.Mod{{I: j, M: ns}}
			d := timeit(func() {
				s, err = fsv.Sanitize(pp, skZ, sanPKs[0], pkS, sanPKs, m, modif, s)
			})
			if err != nil {
				return 0, 0, 0, 0, err
			}
			if j == 0 {
				sanSamples = append(sanSamples, d)
			}
			m[j] = ns
		}

		var ok bool
		verSamples = append(verSamples, timeit(func() {
			ok = fsv.Verify(pp, pkS, sanPKs, m, s)
		}))
		if !ok {
			return 0, 0, 0, 0, errors.New("verify failed during measurement")
		}

		jdgSamples = append(jdgSamples, timeit(func() {
			fsv.Judge(s, nil)
		}))
	}

	return average(signSamples), average(sanSamples), average(verSamples), average(jdgSamples), nil
}

func measureIUT(pp *iut.PublicParams, n, k, numExec, numAdm int) (sigT, sanT, verT, prfT, jdgT int64, err error) {
	skS, pkS, err := iut.KeyGenSigner(pp)
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}

	m := make([]string, n)
	for j := range m {
		m[j] = randomString(10)
	}

	adm := make([][]bool, k)
	sanPKs := make([]*iut.SanitizerPublicKey, k)
	var skZ0 *iut.SanitizerSecretKey
	for i := 0; i < k; i++ {
		adm[i] = make([]bool, n)
		for j := 0; j < numAdm && j < n; j++ {
			adm[i][j] = true
		}
		skZ, pkZ, err := iut.KeyGenSanitizer(pp)
		if err != nil {
			return 0, 0, 0, 0, 0, err
		}
		sanPKs[i] = pkZ
		if i == 0 {
			skZ0 = skZ
		}
	}

	var signSamples, sanSamples, verSamples, prfSamples, jdgSamples []time.Duration
	for x := 0; x < numExec; x++ {
		var s *iut.Signature
		signSamples = append(signSamples, timeit(func() {
			s, err = iut.Sign(pp, skS, pkS, sanPKs, m, adm)
		}))
		if err != nil {
			return 0, 0, 0, 0, 0, err
		}

		ns := randomString(10)
		modif := []iut.Mod{{I: 0, M: ns}}
		sanSamples = append(sanSamples, timeit(func() {
			s, err = iut.Sanitize(pp, skZ0, pkS, sanPKs[0], sanPKs, m, modif, s)
		}))
		if err != nil {
			return 0, 0, 0, 0, 0, err
		}
		m[0] = ns

		var ok bool
		verSamples = append(verSamples, timeit(func() {
			ok = iut.Verify(pp, pkS, sanPKs, m, s)
		}))
		if !ok {
			return 0, 0, 0, 0, 0, errors.New("verify failed during measurement")
		}

		var proof *iut.Proof
		prfSamples = append(prfSamples, timeit(func() {
			proof, err = iut.Prove(pp, skS, pkS, sanPKs, m, s)
		}))
		if err != nil {
			return 0, 0, 0, 0, 0, err
		}

		jdgSamples = append(jdgSamples, timeit(func() {
			iut.Judge(pp, pkS, sanPKs, m, s, proof)
		}))
	}

	return average(signSamples), average(sanSamples), average(verSamples), average(prfSamples), average(jdgSamples), nil
}
